package testutil

import (
	"testing"

	"github.com/iwvelando/mortgage-compare/internal/calculator"
)

func TestFindScenario(t *testing.T) {
	results := []calculator.Result{
		{Name: "Scenario A", Loans: []calculator.LoanResult{{Name: "fixed"}}},
		{Name: "Scenario B"},
		{Name: "Another Scenario"},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
	}{
		{name: "Find existing scenario A", searchName: "Scenario A", expectFound: true},
		{name: "Find existing scenario B", searchName: "Scenario B", expectFound: true},
		{name: "Case sensitive", searchName: "scenario a", expectFound: false},
		{name: "Missing scenario", searchName: "Scenario C", expectFound: false},
		{name: "Empty name", searchName: "", expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindScenario(results, tt.searchName)
			if tt.expectFound && result == nil {
				t.Fatalf("Expected to find scenario %q", tt.searchName)
			}
			if !tt.expectFound && result != nil {
				t.Fatalf("Expected not to find scenario %q, got %+v", tt.searchName, result)
			}
			if result != nil && result.Name != tt.searchName {
				t.Errorf("Expected scenario %q, got %q", tt.searchName, result.Name)
			}
		})
	}

	// The returned pointer refers to the slice element.
	FindScenario(results, "Scenario B").Name = "Renamed"
	if results[1].Name != "Renamed" {
		t.Errorf("Expected FindScenario to return a pointer into the slice")
	}
}

func TestFindLoan(t *testing.T) {
	result := &calculator.Result{Loans: []calculator.LoanResult{{Name: "fixed"}, {Name: "mixed"}}}

	if loan := FindLoan(result, "mixed"); loan == nil || loan.Name != "mixed" {
		t.Errorf("Expected to find loan mixed, got %+v", loan)
	}
	if loan := FindLoan(result, "other"); loan != nil {
		t.Errorf("Expected nil for a missing loan, got %+v", loan)
	}
	if loan := FindLoan(nil, "fixed"); loan != nil {
		t.Errorf("Expected nil for a nil result, got %+v", loan)
	}
}
