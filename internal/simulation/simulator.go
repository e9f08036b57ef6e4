package simulation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hfinch/household-forecast/internal/config"
	"github.com/hfinch/household-forecast/internal/policy"
	"github.com/hfinch/household-forecast/pkg/constants"
	"github.com/hfinch/household-forecast/pkg/mathutil"
)

// Snapshot records the ledger at one weekly boundary.
type Snapshot struct {
	Day                  int
	HomeLoanBalance      float64
	StudentLoanBalance   float64
	PortfolioBalance     float64
	AccumulatedDividends float64
	FortnightlySpareCash float64
	Equity               float64
	NetWorth             float64
}

// Result holds everything one simulation run produced. The caller owns
// it after the run completes.
type Result struct {
	Strategy              policy.Strategy
	Trajectory            []Snapshot
	Final                 Snapshot
	NetWorth              float64
	HomeLoanPaidOffDay    int
	StudentLoanPaidOffDay int
}

// Simulator projects a configuration forward under a fixed allocation
// strategy. Construction validates the configuration; a simulator never
// runs on invalid input.
type Simulator struct {
	logger *zap.Logger
	conf   *config.Configuration
}

// NewSimulator constructs a Simulator for the provided configuration.
func NewSimulator(logger *zap.Logger, conf *config.Configuration) (*Simulator, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{logger: logger, conf: conf}, nil
}

// Run advances the ledger day by day until the horizon and returns the
// trajectory and final net worth. Event order on a coinciding day is
// fixed: interest accrual, weekly minimum, fortnightly allocation,
// portfolio growth, dividend, then the yearly block (wage growth,
// compulsory student repayment, indexation). Runs are deterministic:
// the same configuration and strategy always produce an identical
// trajectory.
func (sim *Simulator) Run(strategy policy.Strategy) (*Result, error) {
	if err := strategy.Validate(); err != nil {
		return nil, &config.ConfigurationError{Field: "strategy", Reason: err.Error()}
	}

	state := NewSimulationState(sim.conf)
	horizon := sim.conf.HorizonDays()

	trajectory := make([]Snapshot, 0, horizon/constants.DaysPerWeek+2)
	trajectory = append(trajectory, sim.snapshot(state))

	for day := 1; day <= horizon; day++ {
		state.Day = day

		if IsMonthBoundary(day) {
			state.AccrueHomeLoanInterest(sim.conf.HomeLoan.MonthlyInterestRate())
		}
		if IsWeekBoundary(day) {
			state.PayHomeLoanMinimum(sim.conf.HomeLoan.MinimumWeeklyRepayment)
		}
		if IsFortnightBoundary(day) {
			cash := state.FortnightlyCash(sim.conf.StudentLoan.FortnightlyTax)
			availability := policy.AvailabilityFor(state.HomeLoanOpen(), state.StudentLoanOpen())
			split := strategy.Redistribute(availability).Split(cash)
			applied, err := state.ApplyDiscretionary(split)
			if err != nil {
				return nil, err
			}
			sim.logger.Debug("fortnightly allocation applied",
				zap.Int("day", day),
				zap.Float64("cash", cash),
				zap.Float64("homeLoan", applied.HomeLoan),
				zap.Float64("studentLoan", applied.StudentLoan),
				zap.Float64("investing", applied.Investing),
			)
		}
		if IsMonthBoundary(day) {
			state.GrowPortfolio(sim.conf.Investment.MonthlyGrowthRate)
		}
		if IsQuarterBoundary(day) {
			state.PayDividend(sim.conf.Investment.QuarterlyDividendYield)
		}
		if IsYearBoundary(day) {
			state.GrowWage(sim.conf.Cash.AnnualWageGrowthRate)
			state.PayStudentLoanCompulsory(sim.conf.StudentLoan.CompulsoryAnnualRepayment())
			state.IndexStudentLoan(sim.conf.StudentLoan.AnnualIndexationRate)
		}

		if err := state.CheckInvariants(); err != nil {
			return nil, err
		}
		if IsWeekBoundary(day) || day == horizon {
			trajectory = append(trajectory, sim.snapshot(state))
		}
	}

	final := trajectory[len(trajectory)-1]
	result := &Result{
		Strategy:              strategy,
		Trajectory:            trajectory,
		Final:                 final,
		NetWorth:              final.NetWorth,
		HomeLoanPaidOffDay:    state.HomeLoanPaidOffDay(),
		StudentLoanPaidOffDay: state.StudentLoanPaidOffDay(),
	}
	sim.logger.Debug("simulation complete",
		zap.Float64("homeLoanPercent", strategy.HomeLoanPercent),
		zap.Float64("studentLoanPercent", strategy.StudentLoanPercent),
		zap.Float64("netWorth", result.NetWorth),
		zap.Int("homeLoanPaidOffDay", result.HomeLoanPaidOffDay),
		zap.Int("studentLoanPaidOffDay", result.StudentLoanPaidOffDay),
	)
	return result, nil
}

func (sim *Simulator) snapshot(state *SimulationState) Snapshot {
	equity := mathutil.Round(sim.conf.HomeLoan.HousePrice - state.HomeLoanBalance)
	return Snapshot{
		Day:                  state.Day,
		HomeLoanBalance:      state.HomeLoanBalance,
		StudentLoanBalance:   state.StudentLoanBalance,
		PortfolioBalance:     state.PortfolioBalance,
		AccumulatedDividends: state.AccumulatedDividends,
		FortnightlySpareCash: state.FortnightlySpareCash,
		Equity:               equity,
		NetWorth:             NetWorth(state, sim.conf),
	}
}

// NetWorth is the objective the optimizer maximizes: equity (house price
// less the home loan balance) plus the portfolio and accumulated
// dividends, less both outstanding loan balances.
func NetWorth(state *SimulationState, conf *config.Configuration) float64 {
	equity := conf.HomeLoan.HousePrice - state.HomeLoanBalance
	return mathutil.Round(equity + state.PortfolioBalance + state.AccumulatedDividends -
		state.HomeLoanBalance - state.StudentLoanBalance)
}
