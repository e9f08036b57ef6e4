// Package output provides utilities for formatting and displaying
// simulation and optimization results.
package output

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hfinch/household-forecast/internal/optimizer"
	"github.com/hfinch/household-forecast/internal/simulation"
	"github.com/hfinch/household-forecast/pkg/format"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result *simulation.Result) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Results for strategy home %.1f%% / student %.1f%% / investing %.1f%% ---\n",
		result.Strategy.HomeLoanPercent, result.Strategy.StudentLoanPercent, result.Strategy.InvestingPercent())
	fmt.Fprintf(w, "Day    | Home loan      | Student loan   | Portfolio      | Dividends      | Net worth\n")
	fmt.Fprintf(w, "___    | _________      | ____________   | _________      | _________      | _________\n")
	for _, snap := range result.Trajectory {
		_, _ = p.Fprintf(w, "%6d | $%.2f | $%.2f | $%.2f | $%.2f | $%.2f\n",
			snap.Day, snap.HomeLoanBalance, snap.StudentLoanBalance,
			snap.PortfolioBalance, snap.AccumulatedDividends, snap.NetWorth)
	}
	fmt.Fprintf(w, "Final net worth: %s\n", format.Currency(result.NetWorth))
	if result.HomeLoanPaidOffDay >= 0 {
		fmt.Fprintf(w, "Home loan paid off on day %d\n", result.HomeLoanPaidOffDay)
	}
	if result.StudentLoanPaidOffDay >= 0 {
		fmt.Fprintf(w, "Student loan paid off on day %d\n", result.StudentLoanPaidOffDay)
	}
}

// PrettyOptimization writes the optimizer outcome ahead of the winning
// run's table.
func PrettyOptimization(w io.Writer, result *optimizer.Result) {
	if result.Improved {
		fmt.Fprintf(w, "Optimizer evaluated %d candidates; best final net worth %s\n",
			result.Candidates, format.Currency(result.NetWorth))
	} else {
		fmt.Fprintf(w, "Optimizer evaluated %d candidates; no candidate improved on the baseline (net worth %s)\n",
			result.Candidates, format.Currency(result.NetWorth))
	}
	PrettyFormat(w, result.Run)
}

// CsvFormat outputs the trajectory in comma-separated value format.
// Amounts are rendered with exact two-decimal strings.
func CsvFormat(w io.Writer, result *simulation.Result) {
	fmt.Fprintf(w, "\"day\",\"home_loan_balance\",\"student_loan_balance\",\"portfolio_balance\",\"accumulated_dividends\",\"fortnightly_spare_cash\",\"equity\",\"net_worth\"\n")
	for _, snap := range result.Trajectory {
		fmt.Fprintf(w, "\"%d\",\"%s\",\"%s\",\"%s\",\"%s\",\"%s\",\"%s\",\"%s\"\n",
			snap.Day,
			cents(snap.HomeLoanBalance),
			cents(snap.StudentLoanBalance),
			cents(snap.PortfolioBalance),
			cents(snap.AccumulatedDividends),
			cents(snap.FortnightlySpareCash),
			cents(snap.Equity),
			cents(snap.NetWorth),
		)
	}
}

func cents(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

type jsonSnapshot struct {
	Day                  int     `json:"day"`
	HomeLoanBalance      float64 `json:"homeLoanBalance"`
	StudentLoanBalance   float64 `json:"studentLoanBalance"`
	PortfolioBalance     float64 `json:"portfolioBalance"`
	AccumulatedDividends float64 `json:"accumulatedDividends"`
	FortnightlySpareCash float64 `json:"fortnightlySpareCash"`
	Equity               float64 `json:"equity"`
	NetWorth             float64 `json:"netWorth"`
}

type jsonResult struct {
	HomeLoanPercent       float64        `json:"homeLoanPercent"`
	StudentLoanPercent    float64        `json:"studentLoanPercent"`
	InvestingPercent      float64        `json:"investingPercent"`
	NetWorth              float64        `json:"netWorth"`
	HomeLoanPaidOffDay    int            `json:"homeLoanPaidOffDay"`
	StudentLoanPaidOffDay int            `json:"studentLoanPaidOffDay"`
	Trajectory            []jsonSnapshot `json:"trajectory"`
}

// JSONFormat outputs the run as a single JSON document.
func JSONFormat(w io.Writer, result *simulation.Result) error {
	doc := jsonResult{
		HomeLoanPercent:       result.Strategy.HomeLoanPercent,
		StudentLoanPercent:    result.Strategy.StudentLoanPercent,
		InvestingPercent:      result.Strategy.InvestingPercent(),
		NetWorth:              result.NetWorth,
		HomeLoanPaidOffDay:    result.HomeLoanPaidOffDay,
		StudentLoanPaidOffDay: result.StudentLoanPaidOffDay,
		Trajectory:            make([]jsonSnapshot, 0, len(result.Trajectory)),
	}
	for _, snap := range result.Trajectory {
		doc.Trajectory = append(doc.Trajectory, jsonSnapshot(snap))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
