package output

import (
	"fmt"
	"strings"

	"github.com/ulproj/ul-projector/internal/domain"
)

// Render formats results with a named formatter.
func Render(results *domain.ProjectionResult, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	return f.Format(results)
}

// GenerateReport writes results to a timestamped file in dir and returns its path.
// The format "all" writes every registered format.
func GenerateReport(results *domain.ProjectionResult, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range builtInFormatters {
			name, err := WriteFormatted(f, results, dir)
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	name, err := WriteFormatted(f, results, dir)
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// unsupported enriches the error with available formatters and aliases.
func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
