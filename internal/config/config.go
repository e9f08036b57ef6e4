// Package config defines the data structures related to configuration and
// includes functions for loading, defaulting, and validating the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/hfinch/household-forecast/pkg/constants"
)

// Configuration holds all inputs for a forecast run. It is treated as
// immutable once Validate has passed.
type Configuration struct {
	HomeLoan     HomeLoan        `yaml:"homeLoan" mapstructure:"homeLoan"`
	StudentLoan  StudentLoan     `yaml:"studentLoan" mapstructure:"studentLoan"`
	Cash         Cash            `yaml:"cash" mapstructure:"cash"`
	Investment   Investment      `yaml:"investment" mapstructure:"investment"`
	HorizonYears int             `yaml:"horizonYears" mapstructure:"horizonYears"`
	Strategy     *StrategyConfig `yaml:"strategy,omitempty" mapstructure:"strategy"`
	Optimizer    OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
	Logging      LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging"`
	Output       OutputConfig    `yaml:"output,omitempty" mapstructure:"output"`
}

// HomeLoan holds the mortgage parameters.
type HomeLoan struct {
	InitialBalance         float64 `yaml:"initialBalance" mapstructure:"initialBalance"`
	HousePrice             float64 `yaml:"housePrice" mapstructure:"housePrice"`
	AnnualInterestRate     float64 `yaml:"annualInterestRate" mapstructure:"annualInterestRate"`
	MinimumWeeklyRepayment float64 `yaml:"minimumWeeklyRepayment" mapstructure:"minimumWeeklyRepayment"`
}

// MonthlyInterestRate derives the per-month rate from the annual rate by
// simple division. The model year has exactly twelve 30-day months, so
// no compounding-root correction is applied.
func (h HomeLoan) MonthlyInterestRate() float64 {
	return h.AnnualInterestRate / constants.MonthsPerYear
}

// StudentLoan holds the student loan parameters. FortnightlyTax is the
// amount withheld from pay while the loan is open; it is freed into
// spare cash once the balance reaches zero.
type StudentLoan struct {
	InitialBalance       float64 `yaml:"initialBalance" mapstructure:"initialBalance"`
	AnnualIndexationRate float64 `yaml:"annualIndexationRate" mapstructure:"annualIndexationRate"`
	FortnightlyTax       float64 `yaml:"fortnightlyTax" mapstructure:"fortnightlyTax"`
}

// CompulsoryAnnualRepayment is the yearly repayment funded by the
// withheld tax: one fortnightly withholding per fortnight of the year.
func (s StudentLoan) CompulsoryAnnualRepayment() float64 {
	return s.FortnightlyTax * constants.FortnightsPerYear
}

// Cash holds the spare-cash parameters.
type Cash struct {
	InitialFortnightlySpare float64 `yaml:"initialFortnightlySpare" mapstructure:"initialFortnightlySpare"`
	AnnualWageGrowthRate    float64 `yaml:"annualWageGrowthRate" mapstructure:"annualWageGrowthRate"`
}

// Investment holds the portfolio parameters. The growth rate is already
// per-month and the dividend yield per-quarter, matching the cadence at
// which each is applied.
type Investment struct {
	InitialBalance         float64 `yaml:"initialBalance" mapstructure:"initialBalance"`
	MonthlyGrowthRate      float64 `yaml:"monthlyGrowthRate" mapstructure:"monthlyGrowthRate"`
	QuarterlyDividendYield float64 `yaml:"quarterlyDividendYield" mapstructure:"quarterlyDividendYield"`
}

// StrategyConfig is an explicit allocation strategy supplied by the
// caller. When absent the optimizer chooses one.
type StrategyConfig struct {
	HomeLoanPercent    float64 `yaml:"homeLoanPercent" mapstructure:"homeLoanPercent"`
	StudentLoanPercent float64 `yaml:"studentLoanPercent" mapstructure:"studentLoanPercent"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// HorizonDays converts the configured horizon to model days.
func (conf *Configuration) HorizonDays() int {
	return conf.HorizonYears * constants.DaysPerYear
}

// LoadConfiguration takes a file path as input and loads the
// YAML-formatted configuration there.
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

	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset tunables with their defaults. It runs before
// validation so a minimal configuration stays valid.
func (conf *Configuration) ApplyDefaults() {
	conf.Optimizer.Normalize()
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
}
