// Package constants provides shared constants for the mortgage-compare application.
package constants

// DateTimeLayout is the format expected for loan start dates in config files
// and is also the output date format.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencySymbol is appended to formatted amounts
	CurrencySymbol = "€"
)

// Simulation constants
const (
	// SafetyMarginMonths bounds every month walk at the nominal term plus this
	// many months before a run is declared non-converging.
	SafetyMarginMonths = 24

	// MaxNonPositivePrincipalMonths is the number of consecutive months a
	// payment may fail to reduce principal before the run is aborted.
	MaxNonPositivePrincipalMonths = 12

	// BalanceTolerance is the residual balance treated as fully repaid.
	BalanceTolerance = 1e-6
)

// Prepayment policies
const (
	// PolicyReduceTerm keeps the payment and shortens the loan.
	PolicyReduceTerm = "reduce_term"

	// PolicyReducePayment keeps the term and lowers the payment.
	PolicyReducePayment = "reduce_payment"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the structured report served by the HTTP API
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTLSeconds is how long computed results stay cached
	DefaultCacheTTLSeconds = 3600
)

// Input bounds enforced by the input provider, mirroring the calculator forms.
const (
	MinTermYears     = 1
	MaxTermYears     = 40
	MinPrincipal     = 1000.0
	MaxPrincipal     = 1000000.0
	MinInterestRate  = 0.0
	MaxInterestRate  = 20.0
	MinReferenceRate = -2.0
	MaxReferenceRate = 10.0
	MinSpread        = 0.0
	MaxSpread        = 5.0
)
