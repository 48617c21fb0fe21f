package calculation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

// DefaultWorkers bounds concurrent scenario runs.
const DefaultWorkers = 6

const tracerName = "github.com/ulproj/ul-projector/internal/calculation"

// ProjectionEngine runs the scenario cross product for a policy.
type ProjectionEngine struct {
	Rates   ratetable.Provider
	Workers int
	Logger  Logger
	tracer  trace.Tracer
}

// NewProjectionEngine creates an engine reading rates from rates.
func NewProjectionEngine(rates ratetable.Provider) *ProjectionEngine {
	return &ProjectionEngine{
		Rates:   rates,
		Workers: DefaultWorkers,
		Logger:  NopLogger{},
		tracer:  otel.Tracer(tracerName),
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Quote resolves the policy's product, term and modal premiums.
func (e *ProjectionEngine) Quote(base *domain.PolicyBase) (*PremiumQuote, error) {
	return quotePolicy(e.Rates, base)
}

// prepared is the read-only state shared by every scenario of one projection.
type prepared struct {
	base     *domain.PolicyBase
	quote    *PremiumQuote
	timeline []domain.TimelineRow
}

func (e *ProjectionEngine) prepare(base *domain.PolicyBase) (*prepared, error) {
	quote, err := quotePolicy(e.Rates, base)
	if err != nil {
		return nil, err
	}
	timeline, err := buildTimeline(e.Rates, base, quote)
	if err != nil {
		return nil, err
	}
	e.Logger.Debugf("prepared %s: entry age %d, term %d, annual TP %s, annual EP %s",
		base.ProductID, quote.EntryAge, quote.Term, quote.TP.Annual, quote.EP.Annual)
	return &prepared{base: base, quote: quote, timeline: timeline}, nil
}

func (e *ProjectionEngine) runScenario(ctx context.Context, p *prepared, key domain.ScenarioKey) (domain.ScenarioProjection, error) {
	ctx, span := e.tracer.Start(ctx, "calculation.scenario",
		trace.WithAttributes(attribute.String("scenario", key.String())))
	defer span.End()

	rows := parameterize(key, p.timeline, p.base, p.quote)
	rows, err := rollForward(ctx, rows, p.base, p.quote)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.ScenarioProjection{}, fmt.Errorf("scenario %s: %w", key, err)
	}

	sp := domain.ScenarioProjection{Key: key, Rows: rows}
	if sp.Lapsed() {
		e.Logger.Debugf("scenario %s lapsed in year %d", key, rows[len(rows)-1].Year)
	}
	span.SetAttributes(attribute.Int("years", len(rows)), attribute.Bool("lapsed", sp.Lapsed()))
	return sp, nil
}

// Project runs all 18 scenarios and merges them in enumeration order. Any
// failure, including cancellation, fails the whole projection.
func (e *ProjectionEngine) Project(ctx context.Context, base *domain.PolicyBase) (*domain.ProjectionResult, error) {
	ctx, span := e.tracer.Start(ctx, "calculation.Project",
		trace.WithAttributes(attribute.String("product", string(base.ProductID))))
	defer span.End()

	result, err := e.project(ctx, base, EnumerateScenarios())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.Logger.Errorf("projection failed: %v", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("term", result.Term))
	return result, nil
}

func (e *ProjectionEngine) project(ctx context.Context, base *domain.PolicyBase, keys []domain.ScenarioKey) (*domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := e.prepare(base)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ScenarioProjection, len(keys))

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sp, err := e.runScenario(gctx, p, key)
			if err != nil {
				return err
			}
			results[idx] = sp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.Logger.Infof("projected %d scenarios for %s over %d years", len(results), base.ProductID, p.quote.Term)
	return &domain.ProjectionResult{
		Product:     base.ProductID,
		EntryAge:    p.quote.EntryAge,
		Term:        p.quote.Term,
		AnnualTP:    p.quote.TP.Annual,
		AnnualEP:    p.quote.EP.Annual,
		GeneratedAt: nowFunc(),
		Scenarios:   results,
	}, nil
}

// ProjectPolicy projects a policy document and stamps its id on the result.
// With keys given only those scenarios run, in the order given.
func (e *ProjectionEngine) ProjectPolicy(ctx context.Context, policy *domain.Policy, keys ...domain.ScenarioKey) (*domain.ProjectionResult, error) {
	var (
		result *domain.ProjectionResult
		err    error
	)
	if len(keys) == 0 {
		result, err = e.Project(ctx, &policy.Base)
	} else {
		result, err = e.project(ctx, &policy.Base, keys)
	}
	if err != nil {
		return nil, err
	}
	result.PolicyID = policy.ID
	if months, err := entryMonthAge(&policy.Base); err == nil {
		result.EntryMonthAge = &months
	}
	return result, nil
}

// ProjectScenario runs a single scenario.
func (e *ProjectionEngine) ProjectScenario(ctx context.Context, base *domain.PolicyBase, key domain.ScenarioKey) (*domain.ScenarioProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := e.prepare(base)
	if err != nil {
		return nil, err
	}
	sp, err := e.runScenario(ctx, p, key)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}
