// Package optimizer searches the allocation-strategy simplex for the
// policy maximizing final net worth, using the simulator as a black-box
// evaluator.
package optimizer

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hfinch/household-forecast/internal/config"
	"github.com/hfinch/household-forecast/internal/policy"
	"github.com/hfinch/household-forecast/internal/simulation"
)

// Result holds the winning strategy and its run. Improved is false when
// a caller-supplied baseline was at least as good as every candidate; in
// that case the baseline's run is returned unchanged.
type Result struct {
	Strategy   policy.Strategy
	NetWorth   float64
	Run        *simulation.Result
	Improved   bool
	Candidates int
}

// Runner evaluates candidate strategies against one configuration.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Runner{logger: logger, conf: conf}, nil
}

// Candidates enumerates the strategy grid in deterministic order: home
// loan share ascending, then student loan share ascending, spaced by the
// configured step and clipped to the simplex. MaxCandidates truncates
// the tail of the enumeration.
func (r *Runner) Candidates() []policy.Strategy {
	step := r.conf.Optimizer.StepPercent
	limit := r.conf.Optimizer.MaxCandidates

	var candidates []policy.Strategy
	for i := 0; ; i++ {
		homeLoan := float64(i) * step
		if homeLoan > 100 {
			break
		}
		for j := 0; ; j++ {
			studentLoan := float64(j) * step
			if homeLoan+studentLoan > 100 {
				break
			}
			candidates = append(candidates, policy.Strategy{
				HomeLoanPercent:    homeLoan,
				StudentLoanPercent: studentLoan,
			})
			if limit > 0 && len(candidates) == limit {
				return candidates
			}
		}
	}
	return candidates
}

// Run evaluates the whole grid and returns the best strategy. Candidate
// evaluations are independent; with more than one worker they run
// concurrently, but each result lands in its candidate's slot and
// selection scans in grid order, so the outcome is bit-for-bit identical
// to sequential evaluation.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	candidates := r.Candidates()
	runs := make([]*simulation.Result, len(candidates))

	workers := r.conf.Optimizer.Workers
	if workers <= 1 {
		for i, candidate := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			run, err := r.evaluate(candidate)
			if err != nil {
				return nil, err
			}
			runs[i] = run
		}
	} else {
		group, _ := errgroup.WithContext(ctx)
		group.SetLimit(workers)
		for i, candidate := range candidates {
			i, candidate := i, candidate
			group.Go(func() error {
				run, err := r.evaluate(candidate)
				if err != nil {
					return err
				}
				runs[i] = run
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	best := 0
	for i := 1; i < len(runs); i++ {
		if better(runs[i], runs[best]) {
			best = i
		}
	}

	winner := runs[best]
	r.logger.Info("optimizer selected strategy",
		zap.Float64("homeLoanPercent", winner.Strategy.HomeLoanPercent),
		zap.Float64("studentLoanPercent", winner.Strategy.StudentLoanPercent),
		zap.Float64("investingPercent", winner.Strategy.InvestingPercent()),
		zap.Float64("netWorth", winner.NetWorth),
		zap.Int("candidates", len(candidates)),
	)

	return &Result{
		Strategy:   winner.Strategy,
		NetWorth:   winner.NetWorth,
		Run:        winner,
		Improved:   true,
		Candidates: len(candidates),
	}, nil
}

// RunWithBaseline evaluates the grid against a caller-supplied baseline.
// If no candidate strictly beats the baseline's net worth, the baseline
// run is returned with Improved set to false; this is not an error.
func (r *Runner) RunWithBaseline(ctx context.Context, baseline policy.Strategy) (*Result, error) {
	baselineRun, err := r.evaluate(baseline)
	if err != nil {
		return nil, err
	}

	result, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	result.Candidates++

	if result.NetWorth > baselineRun.NetWorth {
		return result, nil
	}

	r.logger.Info("optimizer found no improvement over baseline",
		zap.Float64("homeLoanPercent", baseline.HomeLoanPercent),
		zap.Float64("studentLoanPercent", baseline.StudentLoanPercent),
		zap.Float64("netWorth", baselineRun.NetWorth),
	)
	result.Strategy = baseline
	result.NetWorth = baselineRun.NetWorth
	result.Run = baselineRun
	result.Improved = false
	return result, nil
}

func (r *Runner) evaluate(candidate policy.Strategy) (*simulation.Result, error) {
	sim, err := simulation.NewSimulator(r.logger, r.conf)
	if err != nil {
		return nil, err
	}
	return sim.Run(candidate)
}

// better implements the selection rule: strictly greater net worth wins;
// ties go to the run that closed both loans earliest; remaining ties
// keep the earlier candidate in grid order.
func better(candidate, incumbent *simulation.Result) bool {
	if candidate.NetWorth != incumbent.NetWorth {
		return candidate.NetWorth > incumbent.NetWorth
	}
	return combinedPayoffDay(candidate) < combinedPayoffDay(incumbent)
}

// combinedPayoffDay is the day both loans were closed, or MaxInt when
// either never closed.
func combinedPayoffDay(run *simulation.Result) int {
	if run.HomeLoanPaidOffDay < 0 || run.StudentLoanPaidOffDay < 0 {
		return math.MaxInt
	}
	if run.HomeLoanPaidOffDay > run.StudentLoanPaidOffDay {
		return run.HomeLoanPaidOffDay
	}
	return run.StudentLoanPaidOffDay
}
