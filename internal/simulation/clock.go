// Package simulation implements the deterministic cash-flow engine: a
// day-indexed clock, the account ledger, and the simulator that drives
// them across the horizon.
package simulation

import "github.com/hfinch/household-forecast/pkg/constants"

// The clock is calendar-free. A model year is 360 days split into twelve
// 30-day months and four 90-day quarters; weeks and fortnights keep
// their natural lengths. Every cadence is phase-aligned to day 0 and a
// fortnight boundary coincides with every second weekly boundary by
// construction. An event fires on day d >= 1 whenever d is a multiple of
// its cadence length; day 0 is the initial state and fires nothing.

// IsWeekBoundary reports whether a weekly event is due on the given day.
func IsWeekBoundary(day int) bool {
	return day > 0 && day%constants.DaysPerWeek == 0
}

// IsFortnightBoundary reports whether a fortnightly event is due.
func IsFortnightBoundary(day int) bool {
	return day > 0 && day%constants.DaysPerFortnight == 0
}

// IsMonthBoundary reports whether a monthly event is due.
func IsMonthBoundary(day int) bool {
	return day > 0 && day%constants.DaysPerMonth == 0
}

// IsQuarterBoundary reports whether a quarterly event is due.
func IsQuarterBoundary(day int) bool {
	return day > 0 && day%constants.DaysPerQuarter == 0
}

// IsYearBoundary reports whether a yearly event is due.
func IsYearBoundary(day int) bool {
	return day > 0 && day%constants.DaysPerYear == 0
}
