// Package config defines the data structures related to configuration and
// includes functions for loading, validating and converting the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for mortgage-compare.
type Configuration struct {
	Scenarios []Scenario    `json:"scenarios" yaml:"scenarios"`
	Logging   LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	Output    OutputConfig  `json:"output,omitempty" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`         // json, console
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // pretty, csv
}

// Scenario groups the loans and lender offers compared together.
type Scenario struct {
	Name   string  `json:"name" yaml:"name"`
	Active bool    `json:"active" yaml:"active"`
	Loans  []Loan  `json:"loans,omitempty" yaml:"loans,omitempty"`
	Offers []Offer `json:"offers,omitempty" yaml:"offers,omitempty"`
}

// Loan holds the parameters of one mortgage. The term is given either in
// years or in months; the fixed phase of a mixed loan likewise.
type Loan struct {
	Name          string       `json:"name" yaml:"name"`
	StartDate     string       `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	Principal     float64      `json:"principal" yaml:"principal"`
	InterestRate  float64      `json:"interestRate" yaml:"interestRate"`
	Years         int          `json:"years,omitempty" yaml:"years,omitempty"`
	TermMonths    int          `json:"termMonths,omitempty" yaml:"termMonths,omitempty"`
	FixedYears    int          `json:"fixedYears,omitempty" yaml:"fixedYears,omitempty"`
	FixedMonths   int          `json:"fixedMonths,omitempty" yaml:"fixedMonths,omitempty"`
	ReferenceRate float64      `json:"referenceRate,omitempty" yaml:"referenceRate,omitempty"`
	Spread        float64      `json:"spread,omitempty" yaml:"spread,omitempty"`
	Prepayments   []Prepayment `json:"prepayments,omitempty" yaml:"prepayments,omitempty"`
}

// Prepayment is an extra principal payment, scheduled either by payment
// number or by calendar month relative to the loan start date. With a
// frequency it repeats through the end month, or the end of the loan.
type Prepayment struct {
	Month     int     `json:"month,omitempty" yaml:"month,omitempty"`
	Date      string  `json:"date,omitempty" yaml:"date,omitempty"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Policy    string  `json:"policy,omitempty" yaml:"policy,omitempty"` // reduce_term (default), reduce_payment
	Frequency int     `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	EndMonth  int     `json:"endMonth,omitempty" yaml:"endMonth,omitempty"`
	EndDate   string  `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// Offer is a lender proposal: a loan plus fees and optional discount programs.
type Offer struct {
	Loan      `mapstructure:",squash" yaml:",inline"`
	Fees      Fees       `json:"fees,omitempty" yaml:"fees,omitempty"`
	Discounts []Discount `json:"discounts,omitempty" yaml:"discounts,omitempty"`
}

// Fees holds the lender charges, percentages given in percent.
type Fees struct {
	OriginationPct   float64 `json:"originationPct,omitempty" yaml:"originationPct,omitempty"`
	OriginationFixed float64 `json:"originationFixed,omitempty" yaml:"originationFixed,omitempty"`
	PrepaymentFeePct float64 `json:"prepaymentFeePct,omitempty" yaml:"prepaymentFeePct,omitempty"`
}

// Discount is a rate reduction bought with a yearly cost.
type Discount struct {
	Name          string  `json:"name" yaml:"name"`
	RateReduction float64 `json:"rateReduction" yaml:"rateReduction"`
	AnnualCost    float64 `json:"annualCost,omitempty" yaml:"annualCost,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r
// using a dedicated viper instance, so concurrent callers do not share state.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Validate returns the first configuration error that prevents a computation.
func (c *Configuration) Validate() error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("no scenarios defined")
	}
	for _, scenario := range c.Scenarios {
		if scenario.Name == "" {
			return fmt.Errorf("scenario without a name")
		}
		for _, loan := range scenario.Loans {
			if err := loan.Validate(); err != nil {
				return fmt.Errorf("scenario %s: loan %s: %w", scenario.Name, loan.Name, err)
			}
		}
		for _, offer := range scenario.Offers {
			if err := offer.Validate(); err != nil {
				return fmt.Errorf("scenario %s: offer %s: %w", scenario.Name, offer.Name, err)
			}
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var scenarios []validation.ScenarioConfig
	for _, scenario := range c.Scenarios {
		info := validation.ScenarioConfig{
			Name:   scenario.Name,
			Active: scenario.Active,
		}
		for _, loan := range scenario.Loans {
			info.Loans = append(info.Loans, loan.validationConfig())
		}
		for _, offer := range scenario.Offers {
			loanInfo := offer.Loan.validationConfig()
			for _, discount := range offer.Discounts {
				loanInfo.RateReduction += discount.RateReduction
			}
			info.Offers = append(info.Offers, loanInfo)
		}
		scenarios = append(scenarios, info)
	}

	validator := validation.ConfigValidator{Scenarios: scenarios}
	return validator.ValidateAll()
}

func (loan Loan) validationConfig() validation.LoanConfig {
	return validation.LoanConfig{
		Name:          loan.Name,
		Principal:     loan.Principal,
		InterestRate:  loan.InterestRate,
		TermMonths:    loan.Term(),
		FixedMonths:   loan.FixedTerm(),
		ReferenceRate: loan.ReferenceRate,
		Spread:        loan.Spread,
	}
}
