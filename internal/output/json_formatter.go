package output

import (
	"github.com/goccy/go-json"

	"github.com/ulproj/ul-projector/internal/domain"
)

// JSONFormatter serializes the projection result, every row included, as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.ProjectionResult) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}
