package validation

import (
	"testing"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

func TestResolveOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		fallback  string
		supported []string
		expected  string
		wantErr   bool
	}{
		{name: "CLI default", fallback: constants.OutputFormatPretty, supported: CLIFormats, expected: "pretty"},
		{name: "CLI csv", requested: "csv", fallback: constants.OutputFormatPretty, supported: CLIFormats, expected: "csv"},
		{name: "CLI rejects json", requested: "json", fallback: constants.OutputFormatPretty, supported: CLIFormats, wantErr: true},
		{name: "Report default", fallback: constants.OutputFormatJSON, supported: ReportFormats, expected: "json"},
		{name: "Report csv", requested: "csv", fallback: constants.OutputFormatJSON, supported: ReportFormats, expected: "csv"},
		{name: "Report rejects pretty", requested: "pretty", fallback: constants.OutputFormatJSON, supported: ReportFormats, wantErr: true},
		{name: "Case sensitive", requested: "CSV", fallback: constants.OutputFormatJSON, supported: ReportFormats, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ResolveOutputFormat(tt.requested, tt.fallback, tt.supported)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveOutputFormat(%q) expected error but got none", tt.requested)
				}
				return
			}
			if err != nil {
				t.Errorf("ResolveOutputFormat(%q) unexpected error = %v", tt.requested, err)
				return
			}
			if format != tt.expected {
				t.Errorf("ResolveOutputFormat(%q) = %q, expected %q", tt.requested, format, tt.expected)
			}
		})
	}
}

func TestResolveOutputFormatErrorMessage(t *testing.T) {
	_, err := ResolveOutputFormat("xml", constants.OutputFormatJSON, ReportFormats)
	if err == nil {
		t.Fatal("expected error for xml")
	}
	if want := `expected output format of json or csv, got "xml"`; err.Error() != want {
		t.Errorf("error = %q, expected %q", err.Error(), want)
	}
}
