package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

// InputParser handles parsing of policy files
type InputParser struct {
	validator *Validator
}

// NewInputParser creates a new input parser that validates against rates
func NewInputParser(rates ratetable.Provider) *InputParser {
	return &InputParser{validator: NewValidator(rates)}
}

// LoadFromFile loads a policy from a YAML or JSON file. Files ending in .json
// are decoded as JSON, everything else as YAML.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Policy, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		format = FormatJSON
	}
	return ip.Parse(data, format)
}

// Parse decodes and validates a policy document.
func (ip *InputParser) Parse(data []byte, format InputFormat) (*domain.Policy, error) {
	policy, err := DecodePolicy(data, format)
	if err != nil {
		return nil, err
	}
	if err := ip.validator.Validate(policy); err != nil {
		return nil, fmt.Errorf("policy validation failed: %w", err)
	}
	return policy, nil
}

// InputFormat is the encoding of a policy document.
type InputFormat string

const (
	FormatYAML InputFormat = "yaml"
	FormatJSON InputFormat = "json"
)

// DecodePolicy decodes a policy without validating it.
func DecodePolicy(data []byte, format InputFormat) (*domain.Policy, error) {
	var policy domain.Policy
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &policy); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &policy); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
	return &policy, nil
}
