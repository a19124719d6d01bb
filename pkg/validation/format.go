// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

var (
	// CLIFormats are the formats the command line tool writes to stdout.
	CLIFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

	// ReportFormats are the formats the report endpoint answers in.
	ReportFormats = []string{constants.OutputFormatJSON, constants.OutputFormatCSV}
)

// ResolveOutputFormat returns the requested format, or fallback when none was
// requested, failing when the result is not one of supported.
func ResolveOutputFormat(requested, fallback string, supported []string) (string, error) {
	format := requested
	if format == "" {
		format = fallback
	}
	for _, candidate := range supported {
		if format == candidate {
			return format, nil
		}
	}
	return "", fmt.Errorf("expected output format of %s, got %q", strings.Join(supported, " or "), format)
}
