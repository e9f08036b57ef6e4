// Package policy defines allocation strategies: stateless rules that
// split a fortnight's spare cash across the home loan, the student loan,
// and the investment portfolio.
package policy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy is the searchable allocation policy: the share of each
// fortnight's spare cash directed at the home loan and the student loan,
// in percent of the available cash. Whatever remains flows to investing.
type Strategy struct {
	HomeLoanPercent    float64
	StudentLoanPercent float64
}

// InvestingPercent is the remainder of the simplex.
func (s Strategy) InvestingPercent() float64 {
	return 100 - s.HomeLoanPercent - s.StudentLoanPercent
}

// Validate rejects strategies outside the allocation simplex.
func (s Strategy) Validate() error {
	if s.HomeLoanPercent < 0 || s.StudentLoanPercent < 0 {
		return fmt.Errorf("strategy percentages must be non-negative, got %.2f and %.2f",
			s.HomeLoanPercent, s.StudentLoanPercent)
	}
	if s.HomeLoanPercent+s.StudentLoanPercent > 100 {
		return fmt.Errorf("strategy percentages must sum to at most 100, got %.2f",
			s.HomeLoanPercent+s.StudentLoanPercent)
	}
	return nil
}

// GoalAvailability enumerates which loan goals can still absorb cash.
type GoalAvailability int

const (
	BothLoansOpen GoalAvailability = iota
	HomeLoanClosed
	StudentLoanClosed
	BothLoansClosed
)

// AvailabilityFor maps the two open/closed flags to the enumeration.
func AvailabilityFor(homeLoanOpen, studentLoanOpen bool) GoalAvailability {
	switch {
	case homeLoanOpen && studentLoanOpen:
		return BothLoansOpen
	case studentLoanOpen:
		return HomeLoanClosed
	case homeLoanOpen:
		return StudentLoanClosed
	default:
		return BothLoansClosed
	}
}

// Redistribute returns the effective strategy for the given goal
// availability: a closed loan's nominal share is split evenly between
// the surviving goals, and with both loans closed everything flows to
// investing. The receiver is never mutated.
func (s Strategy) Redistribute(availability GoalAvailability) Strategy {
	switch availability {
	case HomeLoanClosed:
		return Strategy{
			HomeLoanPercent:    0,
			StudentLoanPercent: s.StudentLoanPercent + s.HomeLoanPercent/2,
		}
	case StudentLoanClosed:
		return Strategy{
			HomeLoanPercent:    s.HomeLoanPercent + s.StudentLoanPercent/2,
			StudentLoanPercent: 0,
		}
	case BothLoansClosed:
		return Strategy{}
	default:
		return s
	}
}

// Split is a three-way division of one fortnight's cash.
type Split struct {
	HomeLoan    float64
	StudentLoan float64
	Investing   float64
}

// Total returns the sum of the three legs.
func (sp Split) Total() float64 {
	total, _ := decimal.NewFromFloat(sp.HomeLoan).
		Add(decimal.NewFromFloat(sp.StudentLoan)).
		Add(decimal.NewFromFloat(sp.Investing)).
		Float64()
	return total
}

var oneHundred = decimal.NewFromInt(100)

// Split divides cash across the three goals according to the strategy.
// The loan legs are computed to the cent with decimal arithmetic,
// rounded toward zero: the legs then never exceed their exact shares, so
// the investing leg that absorbs the rounding remainder stays
// non-negative and the three legs always sum exactly to the
// (cent-rounded) cash.
func (s Strategy) Split(cash float64) Split {
	total := decimal.NewFromFloat(cash).Round(2)
	homeLoan := total.Mul(decimal.NewFromFloat(s.HomeLoanPercent)).Div(oneHundred).RoundDown(2)
	studentLoan := total.Mul(decimal.NewFromFloat(s.StudentLoanPercent)).Div(oneHundred).RoundDown(2)
	investing := total.Sub(homeLoan).Sub(studentLoan)

	h, _ := homeLoan.Float64()
	st, _ := studentLoan.Float64()
	inv, _ := investing.Float64()
	return Split{HomeLoan: h, StudentLoan: st, Investing: inv}
}
