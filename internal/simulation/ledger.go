package simulation

import (
	"fmt"

	"github.com/hfinch/household-forecast/internal/config"
	"github.com/hfinch/household-forecast/internal/policy"
	"github.com/hfinch/household-forecast/pkg/mathutil"
)

// SimulationState holds the mutable balances for one run. The simulator
// owns it exclusively; every event is applied through one of the
// mutating operations below, and no operation may produce a negative
// balance.
type SimulationState struct {
	Day                  int
	HomeLoanBalance      float64
	StudentLoanBalance   float64
	PortfolioBalance     float64
	AccumulatedDividends float64
	FortnightlySpareCash float64

	// releasedCash pools the weekly minimum repayments freed after the
	// home loan closes, until the next fortnightly sweep.
	releasedCash float64

	homeLoanPaidOffDay    int
	studentLoanPaidOffDay int
}

// NewSimulationState seeds the ledger from the configuration. A loan
// that starts at zero balance counts as closed from day 0.
func NewSimulationState(conf *config.Configuration) *SimulationState {
	state := &SimulationState{
		HomeLoanBalance:       mathutil.Round(conf.HomeLoan.InitialBalance),
		StudentLoanBalance:    mathutil.Round(conf.StudentLoan.InitialBalance),
		PortfolioBalance:      mathutil.Round(conf.Investment.InitialBalance),
		FortnightlySpareCash:  mathutil.Round(conf.Cash.InitialFortnightlySpare),
		homeLoanPaidOffDay:    -1,
		studentLoanPaidOffDay: -1,
	}
	state.settleHomeLoan()
	state.settleStudentLoan()
	return state
}

// HomeLoanOpen reports whether the home loan can still absorb payments.
func (s *SimulationState) HomeLoanOpen() bool {
	return s.homeLoanPaidOffDay < 0
}

// StudentLoanOpen reports whether the student loan can still absorb
// payments.
func (s *SimulationState) StudentLoanOpen() bool {
	return s.studentLoanPaidOffDay < 0
}

// HomeLoanPaidOffDay returns the day the home loan closed, or -1.
func (s *SimulationState) HomeLoanPaidOffDay() int {
	return s.homeLoanPaidOffDay
}

// StudentLoanPaidOffDay returns the day the student loan closed, or -1.
func (s *SimulationState) StudentLoanPaidOffDay() int {
	return s.studentLoanPaidOffDay
}

func (s *SimulationState) settleHomeLoan() {
	if s.homeLoanPaidOffDay < 0 && mathutil.IsZero(s.HomeLoanBalance) {
		s.HomeLoanBalance = 0
		s.homeLoanPaidOffDay = s.Day
	}
}

func (s *SimulationState) settleStudentLoan() {
	if s.studentLoanPaidOffDay < 0 && mathutil.IsZero(s.StudentLoanBalance) {
		s.StudentLoanBalance = 0
		s.studentLoanPaidOffDay = s.Day
	}
}

// AccrueHomeLoanInterest applies one month of interest to the home loan.
func (s *SimulationState) AccrueHomeLoanInterest(monthlyRate float64) {
	if !s.HomeLoanOpen() {
		return
	}
	s.HomeLoanBalance = mathutil.Round(s.HomeLoanBalance * (1 + monthlyRate))
}

// PayHomeLoanMinimum applies the weekly minimum repayment, capped at the
// remaining balance. Once the loan is closed the budgeted minimum is
// banked into spare cash every week instead; the pool is swept at the
// next fortnightly allocation. Returns the amount paid off the loan.
func (s *SimulationState) PayHomeLoanMinimum(minimum float64) float64 {
	if !s.HomeLoanOpen() {
		s.releasedCash = mathutil.Round(s.releasedCash + minimum)
		return 0
	}
	paid := mathutil.Min(minimum, s.HomeLoanBalance)
	s.HomeLoanBalance = mathutil.Round(s.HomeLoanBalance - paid)
	s.settleHomeLoan()
	return paid
}

// FortnightlyCash returns the cash available at a fortnightly decision
// point and sweeps the pool of released weekly minimums. The freed
// student-loan withholding joins the pool once that loan is closed.
func (s *SimulationState) FortnightlyCash(fortnightlyTax float64) float64 {
	cash := s.FortnightlySpareCash + s.releasedCash
	s.releasedCash = 0
	if !s.StudentLoanOpen() {
		cash += fortnightlyTax
	}
	return mathutil.Round(cash)
}

// ApplyDiscretionary applies one fortnight's three-way split. Loan legs
// are capped at the remaining balance; any excess cascades to the next
// live goal in the same step (student loan, then investing), so nothing
// is dropped. Returns the amounts actually applied per goal.
func (s *SimulationState) ApplyDiscretionary(split policy.Split) (policy.Split, error) {
	available := mathutil.Round(split.Total())
	var applied policy.Split

	overflow := split.HomeLoan
	if s.HomeLoanOpen() {
		paid := mathutil.Min(split.HomeLoan, s.HomeLoanBalance)
		s.HomeLoanBalance = mathutil.Round(s.HomeLoanBalance - paid)
		s.settleHomeLoan()
		applied.HomeLoan = paid
		overflow = mathutil.Round(split.HomeLoan - paid)
	}

	studentIntent := mathutil.Round(split.StudentLoan + overflow)
	overflow = studentIntent
	if s.StudentLoanOpen() {
		paid := mathutil.Min(studentIntent, s.StudentLoanBalance)
		s.StudentLoanBalance = mathutil.Round(s.StudentLoanBalance - paid)
		s.settleStudentLoan()
		applied.StudentLoan = paid
		overflow = mathutil.Round(studentIntent - paid)
	}

	applied.Investing = mathutil.Round(split.Investing + overflow)
	s.PortfolioBalance = mathutil.Round(s.PortfolioBalance + applied.Investing)

	if total := mathutil.Round(applied.Total()); total != available {
		return applied, &InvariantViolation{
			Day:    s.Day,
			Op:     "ApplyDiscretionary",
			Detail: fmt.Sprintf("split legs sum to %.2f, expected %.2f", total, available),
		}
	}
	return applied, nil
}

// PayStudentLoanCompulsory applies the yearly repayment funded by the
// withheld fortnightly tax, capped at the remaining balance. Returns the
// amount paid.
func (s *SimulationState) PayStudentLoanCompulsory(amount float64) float64 {
	if !s.StudentLoanOpen() || amount <= 0 {
		return 0
	}
	paid := mathutil.Min(amount, s.StudentLoanBalance)
	s.StudentLoanBalance = mathutil.Round(s.StudentLoanBalance - paid)
	s.settleStudentLoan()
	return paid
}

// IndexStudentLoan applies the yearly indexation. A closed loan never
// re-accrues.
func (s *SimulationState) IndexStudentLoan(annualRate float64) {
	if !s.StudentLoanOpen() {
		return
	}
	s.StudentLoanBalance = mathutil.Round(s.StudentLoanBalance * (1 + annualRate))
}

// GrowPortfolio applies one month of growth to the portfolio. The
// growth base excludes accumulated dividends.
func (s *SimulationState) GrowPortfolio(monthlyRate float64) {
	s.PortfolioBalance = mathutil.Round(s.PortfolioBalance * (1 + monthlyRate))
}

// PayDividend accrues one quarter's distribution. Dividends are kept
// outside the portfolio and earn no further growth. Returns the
// distribution amount.
func (s *SimulationState) PayDividend(quarterlyYield float64) float64 {
	dividend := mathutil.Round(s.PortfolioBalance * quarterlyYield)
	s.AccumulatedDividends = mathutil.Round(s.AccumulatedDividends + dividend)
	return dividend
}

// GrowWage applies the yearly wage growth to the spare-cash base.
func (s *SimulationState) GrowWage(annualRate float64) {
	s.FortnightlySpareCash = mathutil.Round(s.FortnightlySpareCash * (1 + annualRate))
}

// CheckInvariants verifies no balance has gone negative.
func (s *SimulationState) CheckInvariants() error {
	balances := []struct {
		name    string
		balance float64
	}{
		{"home loan", s.HomeLoanBalance},
		{"student loan", s.StudentLoanBalance},
		{"portfolio", s.PortfolioBalance},
		{"dividends", s.AccumulatedDividends},
		{"spare cash", s.FortnightlySpareCash},
	}
	for _, entry := range balances {
		name, balance := entry.name, entry.balance
		if balance < 0 {
			return &InvariantViolation{
				Day:    s.Day,
				Op:     "CheckInvariants",
				Detail: fmt.Sprintf("%s balance is negative: %.2f", name, balance),
			}
		}
	}
	return nil
}
