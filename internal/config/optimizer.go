package config

import (
	"fmt"

	"github.com/hfinch/household-forecast/pkg/constants"
)

// OptimizerConfig bounds the strategy search.
type OptimizerConfig struct {
	// StepPercent is the grid spacing over the allocation simplex.
	StepPercent float64 `yaml:"stepPercent,omitempty" mapstructure:"stepPercent"`
	// MaxCandidates caps the number of evaluated strategies; 0 means the
	// whole grid.
	MaxCandidates int `yaml:"maxCandidates,omitempty" mapstructure:"maxCandidates"`
	// Workers is the number of concurrent candidate evaluations. Results
	// are identical for any worker count.
	Workers int `yaml:"workers,omitempty" mapstructure:"workers"`
}

// Normalize ensures defaults are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	if o.StepPercent <= 0 {
		o.StepPercent = constants.DefaultOptimizerStepPercent
	}
	if o.Workers <= 0 {
		o.Workers = constants.DefaultOptimizerWorkers
	}
	if o.MaxCandidates < 0 {
		o.MaxCandidates = 0
	}
}

// Validate returns an error when the optimizer configuration is unusable.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}
	o.Normalize()
	if o.StepPercent > constants.PercentageMultiplier {
		return fmt.Errorf("optimizer step %.2f must be at most 100", o.StepPercent)
	}
	return nil
}
