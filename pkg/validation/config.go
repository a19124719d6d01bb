// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

// ValidateRange returns a warning when value falls outside [min, max].
func ValidateRange(label string, value, min, max float64) string {
	if value < min || value > max {
		return fmt.Sprintf("%s %g is outside the supported range [%g, %g]", label, value, min, max)
	}
	return ""
}

// ValidateLoanBounds checks a loan against the bounds of the calculator input
// forms. Values outside them are still computable, so these are warnings.
func ValidateLoanBounds(prefix string, loan LoanConfig) []string {
	var warnings []string
	add := func(warning string) {
		if warning != "" {
			warnings = append(warnings, prefix+": "+warning)
		}
	}

	add(ValidateRange("principal", loan.Principal, constants.MinPrincipal, constants.MaxPrincipal))
	add(ValidateRange("term in years", float64(loan.TermMonths)/constants.MonthsPerYear,
		constants.MinTermYears, constants.MaxTermYears))
	add(ValidateRange("interest rate", loan.InterestRate, constants.MinInterestRate, constants.MaxInterestRate))

	if loan.FixedMonths > 0 && loan.FixedMonths < loan.TermMonths {
		add(ValidateRange("reference rate", loan.ReferenceRate, constants.MinReferenceRate, constants.MaxReferenceRate))
		add(ValidateRange("spread", loan.Spread, constants.MinSpread, constants.MaxSpread))
	} else if loan.ReferenceRate != 0 || loan.Spread != 0 {
		add("reference rate and spread are ignored without a fixed phase shorter than the term")
	}

	if loan.RateReduction > 0 && loan.RateReduction >= loan.InterestRate {
		add(fmt.Sprintf("discounts of %g points bring the fixed rate of %g%% to zero", loan.RateReduction, loan.InterestRate))
	}

	return warnings
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Scenarios []ScenarioConfig
}

type ScenarioConfig struct {
	Name   string
	Active bool
	Loans  []LoanConfig
	Offers []LoanConfig
}

type LoanConfig struct {
	Name          string
	Principal     float64
	InterestRate  float64
	TermMonths    int
	FixedMonths   int
	ReferenceRate float64
	Spread        float64
	RateReduction float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	seen := make(map[string]bool)
	active := 0
	for _, scenario := range cv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", scenario.Name))
		}
		seen[scenario.Name] = true

		if !scenario.Active {
			continue
		}
		active++

		if len(scenario.Loans) == 0 && len(scenario.Offers) == 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has no loans or offers", scenario.Name))
		}
		for _, loan := range scenario.Loans {
			warnings = append(warnings,
				ValidateLoanBounds(fmt.Sprintf("Scenario '%s' loan '%s'", scenario.Name, loan.Name), loan)...)
		}
		for _, offer := range scenario.Offers {
			warnings = append(warnings,
				ValidateLoanBounds(fmt.Sprintf("Scenario '%s' offer '%s'", scenario.Name, offer.Name), offer)...)
		}
	}

	if len(cv.Scenarios) > 0 && active == 0 {
		warnings = append(warnings, "No scenario is active")
	}

	return warnings
}
