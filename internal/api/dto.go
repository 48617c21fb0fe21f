package api

import (
	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// ValidateResponse is returned for a policy that passes every input rule.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	PolicyID string `json:"policy_id,omitempty"`
	EntryAge int    `json:"entry_age"`
	Term     int    `json:"term"`
}

// ProductDTO is a supported product with the book's scalar rates, when loaded.
type ProductDTO struct {
	domain.ProductCapability
	InterestRates *ratetable.InterestRates `json:"interest_rates,omitempty"`
	AgeBounds     *ratetable.AgeBounds     `json:"age_bounds,omitempty"`
}

// ProductsResponse lists the supported products.
type ProductsResponse struct {
	Products []ProductDTO `json:"products"`
}
