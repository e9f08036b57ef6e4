// Package constants provides shared constants for the household-forecast
// application.
package constants

// Cadence lengths in days. The model year is calendar-free: 360 days
// split into twelve 30-day months and four 90-day quarters, so annual
// rates convert to monthly and quarterly rates by exact division.
const (
	DaysPerWeek      = 7
	DaysPerFortnight = 14
	DaysPerMonth     = 30
	DaysPerQuarter   = 90
	DaysPerYear      = 360
)

// Period counts per model year.
const (
	MonthsPerYear     = 12
	QuartersPerYear   = 4
	FortnightsPerYear = 26
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Optimizer defaults
const (
	// DefaultOptimizerStepPercent is the default grid spacing over the
	// allocation simplex
	DefaultOptimizerStepPercent = 5.0

	// DefaultOptimizerWorkers is the default number of concurrent
	// candidate evaluations
	DefaultOptimizerWorkers = 1
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size
	// for YAML configs (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
