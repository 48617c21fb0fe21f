/*
handlers.go - HTTP API handlers for the projection service

ENDPOINTS:
  GET  /healthz                    Liveness
  GET  /api/v1/products            Supported products and their rates
  POST /api/v1/policies/validate   Validate a JSON policy document
  POST /api/v1/projections         Project a JSON policy (?format=json|csv|detailed-csv|console)

ERROR HANDLING:
  Errors are returned as JSON with an HTTP status:
  - 400: Malformed body, unknown format, unresolvable product or rate data
  - 422: Policy input rule violations
  - 504: Projection exceeded the request timeout
  - 500: Anything else
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/ulproj/ul-projector/internal/calculation"
	"github.com/ulproj/ul-projector/internal/config"
	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/output"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

// maxBodyBytes caps policy documents.
const maxBodyBytes = 1 << 20

// DefaultFormat is used when a projection request names no format.
const DefaultFormat = "json"

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Rates     ratetable.Provider
	Engine    *calculation.ProjectionEngine
	Validator *config.Validator
	Timeout   time.Duration
	Logger    calculation.Logger
}

// NewHandler creates a handler projecting against rates.
func NewHandler(rates ratetable.Provider, engine *calculation.ProjectionEngine, timeout time.Duration) *Handler {
	return &Handler{
		Rates:     rates,
		Engine:    engine,
		Validator: config.NewValidator(rates),
		Timeout:   timeout,
		Logger:    calculation.NopLogger{},
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListProducts returns the capability record of every supported product.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	caps := domain.SupportedProducts()
	resp := ProductsResponse{Products: make([]ProductDTO, 0, len(caps))}
	for _, c := range caps {
		dto := ProductDTO{ProductCapability: c}
		if ir, err := h.Rates.InterestRates(c.ID); err == nil {
			dto.InterestRates = &ir
		}
		if ab, err := h.Rates.AgeBounds(c.ID); err == nil {
			dto.AgeBounds = &ab
		}
		resp.Products = append(resp.Products, dto)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ValidatePolicy checks a policy document without projecting it.
func (h *Handler) ValidatePolicy(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.decodePolicy(w, r)
	if !ok {
		return
	}
	quote, err := h.Engine.Quote(&policy.Base)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:    true,
		PolicyID: policy.ID,
		EntryAge: quote.EntryAge,
		Term:     quote.Term,
	})
}

// CreateProjection projects a policy through all scenarios and renders the
// result in the requested format.
func (h *Handler) CreateProjection(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = DefaultFormat
	}
	if output.GetFormatterByName(format) == nil {
		writeError(w, http.StatusBadRequest, "unsupported format", fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format))
		return
	}

	policy, ok := h.decodePolicy(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	result, err := h.Engine.ProjectPolicy(ctx, policy)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	body, err := output.Render(result, format)
	if err != nil {
		h.Logger.Errorf("render %s: %v", format, err)
		writeError(w, http.StatusInternalServerError, "failed to render projection", err)
		return
	}
	w.Header().Set("Content-Type", output.ContentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// decodePolicy reads and validates a JSON policy body. It writes the error
// response itself and reports whether the handler should continue.
func (h *Handler) decodePolicy(w http.ResponseWriter, r *http.Request) (*domain.Policy, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", err)
		return nil, false
	}
	policy, err := config.DecodePolicy(data, config.FormatJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid policy document", err)
		return nil, false
	}
	if err := h.Validator.Validate(policy); err != nil {
		h.writeDomainError(w, err)
		return nil, false
	}
	return policy, true
}

// writeDomainError maps the engine's error taxonomy to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrConfiguration):
		writeError(w, http.StatusBadRequest, "configuration error", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "projection timed out", err)
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "projection cancelled", err)
	default:
		h.Logger.Errorf("projection failed: %v", err)
		writeError(w, http.StatusInternalServerError, "projection failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
