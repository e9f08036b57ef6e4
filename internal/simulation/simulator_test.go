package simulation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hfinch/household-forecast/internal/config"
	"github.com/hfinch/household-forecast/internal/policy"
)

func simulatorConfig() *config.Configuration {
	conf := &config.Configuration{
		HomeLoan: config.HomeLoan{
			InitialBalance:         400000,
			HousePrice:             500000,
			AnnualInterestRate:     0.05,
			MinimumWeeklyRepayment: 600,
		},
		StudentLoan: config.StudentLoan{
			InitialBalance:       30000,
			AnnualIndexationRate: 0.03,
			FortnightlyTax:       200,
		},
		Cash: config.Cash{
			InitialFortnightlySpare: 800,
			AnnualWageGrowthRate:    0.02,
		},
		Investment: config.Investment{
			InitialBalance:         5000,
			MonthlyGrowthRate:      0.004,
			QuarterlyDividendYield: 0.005,
		},
		HorizonYears: 5,
	}
	conf.ApplyDefaults()
	return conf
}

func TestNewSimulatorRejectsInvalidConfiguration(t *testing.T) {
	conf := simulatorConfig()
	conf.HorizonYears = 0
	if _, err := NewSimulator(nil, conf); err == nil {
		t.Error("NewSimulator() accepted a zero horizon")
	}

	if _, err := NewSimulator(nil, nil); err == nil {
		t.Error("NewSimulator() accepted a nil configuration")
	}
}

func TestRunRejectsInvalidStrategy(t *testing.T) {
	sim, err := NewSimulator(nil, simulatorConfig())
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	_, err = sim.Run(policy.Strategy{HomeLoanPercent: 70, StudentLoanPercent: 40})
	if err == nil {
		t.Fatal("Run() accepted a strategy summing over 100")
	}
	var confErr *config.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("error is %T, want *config.ConfigurationError", err)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	sim, err := NewSimulator(nil, simulatorConfig())
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	strategy := policy.Strategy{HomeLoanPercent: 50, StudentLoanPercent: 20}

	first, err := sim.Run(strategy)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := sim.Run(strategy)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs of the same configuration and strategy differ")
	}
}

func TestTrajectorySampling(t *testing.T) {
	conf := simulatorConfig()
	conf.HorizonYears = 1
	sim, err := NewSimulator(nil, conf)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	run, err := sim.Run(policy.Strategy{HomeLoanPercent: 50, StudentLoanPercent: 20})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if run.Trajectory[0].Day != 0 {
		t.Errorf("first snapshot day = %d, want 0", run.Trajectory[0].Day)
	}
	last := run.Trajectory[len(run.Trajectory)-1]
	if last.Day != conf.HorizonDays() {
		t.Errorf("last snapshot day = %d, want horizon %d", last.Day, conf.HorizonDays())
	}
	if run.Final != last {
		t.Error("Final does not match the last trajectory snapshot")
	}
	for _, snap := range run.Trajectory[1 : len(run.Trajectory)-1] {
		if !IsWeekBoundary(snap.Day) {
			t.Errorf("interior snapshot at day %d is not a week boundary", snap.Day)
		}
	}
}

// With every rate and every payment at zero, nothing moves: the net
// worth is constant across the whole horizon.
func TestZeroRatesConserveNetWorth(t *testing.T) {
	conf := &config.Configuration{
		HomeLoan:     config.HomeLoan{InitialBalance: 300000, HousePrice: 400000},
		StudentLoan:  config.StudentLoan{InitialBalance: 20000},
		Investment:   config.Investment{InitialBalance: 10000},
		HorizonYears: 3,
	}
	conf.ApplyDefaults()

	sim, err := NewSimulator(nil, conf)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	run, err := sim.Run(policy.Strategy{HomeLoanPercent: 50, StudentLoanPercent: 30})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// (400000 - 300000) + 10000 - 300000 - 20000
	want := -210000.0
	for _, snap := range run.Trajectory {
		if snap.NetWorth != want {
			t.Fatalf("net worth at day %d = %.2f, want constant %.2f", snap.Day, snap.NetWorth, want)
		}
	}
}

func TestTrajectoryMonotonicity(t *testing.T) {
	sim, err := NewSimulator(nil, simulatorConfig())
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	run, err := sim.Run(policy.Strategy{HomeLoanPercent: 50, StudentLoanPercent: 20})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := 1; i < len(run.Trajectory); i++ {
		prev, curr := run.Trajectory[i-1], run.Trajectory[i]
		if curr.PortfolioBalance < prev.PortfolioBalance {
			t.Errorf("portfolio shrank between days %d and %d: %.2f -> %.2f",
				prev.Day, curr.Day, prev.PortfolioBalance, curr.PortfolioBalance)
		}
		if curr.AccumulatedDividends < prev.AccumulatedDividends {
			t.Errorf("dividends shrank between days %d and %d", prev.Day, curr.Day)
		}
		// The student loan only grows across a year boundary, when
		// indexation fires.
		crossesYear := curr.Day/360 > prev.Day/360
		if curr.StudentLoanBalance > prev.StudentLoanBalance && !crossesYear {
			t.Errorf("student loan grew between days %d and %d without a year boundary",
				prev.Day, curr.Day)
		}
	}
}

// Odd-cent cash on the 50/50 simplex edge: the loan legs round down to
// the cent, so the leftover cent lands in the portfolio each fortnight.
// The portfolio must never shrink to fund a loan leg.
func TestOddCentAllocationNeverDrainsPortfolio(t *testing.T) {
	conf := &config.Configuration{
		HomeLoan:     config.HomeLoan{InitialBalance: 100000, HousePrice: 120000},
		StudentLoan:  config.StudentLoan{InitialBalance: 50000},
		Cash:         config.Cash{InitialFortnightlySpare: 100.01},
		HorizonYears: 1,
	}
	conf.ApplyDefaults()

	sim, err := NewSimulator(nil, conf)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	run, err := sim.Run(policy.Strategy{HomeLoanPercent: 50, StudentLoanPercent: 50})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := 1; i < len(run.Trajectory); i++ {
		prev, curr := run.Trajectory[i-1], run.Trajectory[i]
		if curr.PortfolioBalance < prev.PortfolioBalance {
			t.Errorf("portfolio shrank between days %d and %d: %.2f -> %.2f",
				prev.Day, curr.Day, prev.PortfolioBalance, curr.PortfolioBalance)
		}
	}

	var day14 Snapshot
	for _, snap := range run.Trajectory {
		if snap.Day == 14 {
			day14 = snap
		}
	}
	if day14.PortfolioBalance != 0.01 {
		t.Errorf("portfolio at day 14 = %.2f, want the 0.01 rounding remainder", day14.PortfolioBalance)
	}
	if day14.HomeLoanBalance != 100000-50.00 {
		t.Errorf("home loan at day 14 = %.2f, want 99950.00", day14.HomeLoanBalance)
	}

	// 25 fortnights, one leftover cent each.
	if run.Final.PortfolioBalance != 0.25 {
		t.Errorf("final portfolio = %.2f, want 0.25", run.Final.PortfolioBalance)
	}
}

// A 500k interest-free loan, a 500 weekly minimum, and 1000 a fortnight
// all to the mortgage amortizes to exactly zero on day 3500: 499 weekly
// and 249 fortnightly payments leave 1500, the weekly payment on day
// 3500 leaves 1000, and the fortnightly allocation that day clears it.
func TestInterestFreeAmortization(t *testing.T) {
	conf := &config.Configuration{
		HomeLoan: config.HomeLoan{
			InitialBalance:         500000,
			HousePrice:             650000,
			MinimumWeeklyRepayment: 500,
		},
		Cash:         config.Cash{InitialFortnightlySpare: 1000},
		HorizonYears: 11,
	}
	conf.ApplyDefaults()

	sim, err := NewSimulator(nil, conf)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	run, err := sim.Run(policy.Strategy{HomeLoanPercent: 100})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if run.Final.HomeLoanBalance != 0 {
		t.Errorf("final home loan balance = %.2f, want exactly 0", run.Final.HomeLoanBalance)
	}
	if run.HomeLoanPaidOffDay != 3500 {
		t.Errorf("HomeLoanPaidOffDay = %d, want 3500", run.HomeLoanPaidOffDay)
	}
	if run.StudentLoanPaidOffDay != 0 {
		t.Errorf("StudentLoanPaidOffDay = %d, want 0 (started at zero)", run.StudentLoanPaidOffDay)
	}

	// After payoff the 32 remaining fortnights each invest the 1000 spare
	// plus two released weekly minimums.
	if run.Final.PortfolioBalance != 64000 {
		t.Errorf("final portfolio = %.2f, want 64000.00", run.Final.PortfolioBalance)
	}
	if run.NetWorth != 650000+64000 {
		t.Errorf("final net worth = %.2f, want 714000.00", run.NetWorth)
	}
	if run.Final.Equity != 650000 {
		t.Errorf("final equity = %.2f, want 650000.00", run.Final.Equity)
	}
}

// With both loans closed from day 0 the whole fortnightly cash, the
// freed withholding, and the released weekly minimums all go to the
// portfolio.
func TestBothLoansClosedInvestsEverything(t *testing.T) {
	conf := &config.Configuration{
		HomeLoan:     config.HomeLoan{MinimumWeeklyRepayment: 500},
		StudentLoan:  config.StudentLoan{FortnightlyTax: 300},
		Cash:         config.Cash{InitialFortnightlySpare: 1000},
		HorizonYears: 1,
	}
	conf.ApplyDefaults()

	sim, err := NewSimulator(nil, conf)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	run, err := sim.Run(policy.Strategy{HomeLoanPercent: 50, StudentLoanPercent: 30})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Fortnight 1: 1000 spare + 300 freed tax + 2 x 500 released minimum.
	var day14 Snapshot
	for _, snap := range run.Trajectory {
		if snap.Day == 14 {
			day14 = snap
		}
	}
	if day14.PortfolioBalance != 2300 {
		t.Errorf("portfolio at day 14 = %.2f, want 2300.00", day14.PortfolioBalance)
	}

	// 25 fortnights in the year, 2300 each.
	if run.Final.PortfolioBalance != 57500 {
		t.Errorf("final portfolio = %.2f, want 57500.00", run.Final.PortfolioBalance)
	}
	if run.Final.HomeLoanBalance != 0 || run.Final.StudentLoanBalance != 0 {
		t.Error("loan balances moved despite starting at zero")
	}
}

// Paying off the student loan mid-run frees the fortnightly withholding
// and redistributes its allocation share from the next fortnight on.
func TestStudentLoanPayoffFreesWithholding(t *testing.T) {
	conf := &config.Configuration{
		HomeLoan:     config.HomeLoan{InitialBalance: 100000, HousePrice: 120000},
		StudentLoan:  config.StudentLoan{InitialBalance: 1000, FortnightlyTax: 250},
		Cash:         config.Cash{InitialFortnightlySpare: 1000},
		HorizonYears: 1,
	}
	conf.ApplyDefaults()

	sim, err := NewSimulator(nil, conf)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	run, err := sim.Run(policy.Strategy{StudentLoanPercent: 50})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// 500 per fortnight against a 1000 balance closes it on day 28.
	if run.StudentLoanPaidOffDay != 28 {
		t.Fatalf("StudentLoanPaidOffDay = %d, want 28", run.StudentLoanPaidOffDay)
	}

	snapshots := make(map[int]Snapshot, len(run.Trajectory))
	for _, snap := range run.Trajectory {
		snapshots[snap.Day] = snap
	}

	// Day 42 is the first allocation with the loan closed: cash is
	// 1000 + 250 freed tax, and the student share's 50% splits evenly,
	// sending 25% (312.50) to the home loan and 75% (937.50) to the
	// portfolio.
	if got := snapshots[28].HomeLoanBalance; got != 100000 {
		t.Errorf("home loan at day 28 = %.2f, want untouched 100000.00", got)
	}
	if got := snapshots[42].HomeLoanBalance; got != 100000-312.50 {
		t.Errorf("home loan at day 42 = %.2f, want 99687.50", got)
	}
	if got := snapshots[42].PortfolioBalance - snapshots[28].PortfolioBalance; got != 937.50 {
		t.Errorf("portfolio delta over day 42 fortnight = %.2f, want 937.50", got)
	}
}
