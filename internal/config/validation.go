package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// ConfigurationError reports a single invalid configuration field. It is
// always raised before any simulation state is mutated and is fatal to
// the run; values are never silently clamped.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}

func fieldError(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every invariant the simulator relies on. All failures
// are reported together rather than one at a time.
func (conf *Configuration) Validate() error {
	var err error

	check := func(field string, value float64, kind string) error {
		if value < 0 {
			return fieldError(field, "%s must be non-negative, got %.4f", kind, value)
		}
		return nil
	}

	err = multierr.Append(err, check("homeLoan.initialBalance", conf.HomeLoan.InitialBalance, "balance"))
	err = multierr.Append(err, check("homeLoan.housePrice", conf.HomeLoan.HousePrice, "price"))
	err = multierr.Append(err, check("homeLoan.annualInterestRate", conf.HomeLoan.AnnualInterestRate, "rate"))
	err = multierr.Append(err, check("homeLoan.minimumWeeklyRepayment", conf.HomeLoan.MinimumWeeklyRepayment, "repayment"))

	err = multierr.Append(err, check("studentLoan.initialBalance", conf.StudentLoan.InitialBalance, "balance"))
	err = multierr.Append(err, check("studentLoan.annualIndexationRate", conf.StudentLoan.AnnualIndexationRate, "rate"))
	err = multierr.Append(err, check("studentLoan.fortnightlyTax", conf.StudentLoan.FortnightlyTax, "amount"))

	err = multierr.Append(err, check("cash.initialFortnightlySpare", conf.Cash.InitialFortnightlySpare, "amount"))
	err = multierr.Append(err, check("cash.annualWageGrowthRate", conf.Cash.AnnualWageGrowthRate, "rate"))

	err = multierr.Append(err, check("investment.initialBalance", conf.Investment.InitialBalance, "balance"))
	err = multierr.Append(err, check("investment.monthlyGrowthRate", conf.Investment.MonthlyGrowthRate, "rate"))
	err = multierr.Append(err, check("investment.quarterlyDividendYield", conf.Investment.QuarterlyDividendYield, "yield"))

	if conf.HorizonYears <= 0 {
		err = multierr.Append(err, fieldError("horizonYears", "horizon must be positive, got %d", conf.HorizonYears))
	}

	if conf.Strategy != nil {
		if conf.Strategy.HomeLoanPercent < 0 || conf.Strategy.StudentLoanPercent < 0 {
			err = multierr.Append(err, fieldError("strategy",
				"percentages must be non-negative, got %.2f and %.2f",
				conf.Strategy.HomeLoanPercent, conf.Strategy.StudentLoanPercent))
		} else if conf.Strategy.HomeLoanPercent+conf.Strategy.StudentLoanPercent > 100 {
			err = multierr.Append(err, fieldError("strategy",
				"percentages must sum to at most 100, got %.2f",
				conf.Strategy.HomeLoanPercent+conf.Strategy.StudentLoanPercent))
		}
	}

	if optErr := conf.Optimizer.Validate(); optErr != nil {
		err = multierr.Append(err, fieldError("optimizer", "%s", optErr.Error()))
	}

	return err
}
