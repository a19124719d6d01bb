// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/mortgage-compare/internal/calculator"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []calculator.Result, name string) *calculator.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// FindLoan finds a loan by name within a scenario result.
func FindLoan(result *calculator.Result, name string) *calculator.LoanResult {
	if result == nil {
		return nil
	}
	for i := range result.Loans {
		if result.Loans[i].Name == name {
			return &result.Loans[i]
		}
	}
	return nil
}
