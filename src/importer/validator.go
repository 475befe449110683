// backend/src/importer/validator.go
package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Issue ties one validation failure to the candidate row it was found on.
// RowIndex is the candidate's RawRowIndex so the frontend can highlight the
// offending preview row.
type Issue struct {
	RowIndex int    `json:"rowIndex"`
	Message  string `json:"message"`
}

// Validate checks every candidate against the import rules and collects all
// failures. It never stops at the first bad row or the first bad field: a
// row with an unparseable date and a blank description produces two issues.
func Validate(candidates []CandidateTransaction, layout DateLayout, now time.Time) []Issue {
	var issues []Issue
	for _, c := range candidates {
		issues = append(issues, validateRow(c, layout, now)...)
	}
	return issues
}

func validateRow(c CandidateTransaction, layout DateLayout, now time.Time) []Issue {
	var issues []Issue

	date, ok := ParseDate(c.Date, layout)
	if !ok {
		issues = append(issues, Issue{c.RawRowIndex, fmt.Sprintf("invalid date '%s'", c.Date)})
	} else if date.After(now) {
		issues = append(issues, Issue{c.RawRowIndex, fmt.Sprintf("date '%s' is in the future", c.Date)})
	}

	if _, err := CleanAmount(c.Amount); err != nil {
		issues = append(issues, Issue{c.RawRowIndex, fmt.Sprintf("invalid amount '%s'", c.Amount)})
	}

	if strings.TrimSpace(c.Description) == "" {
		issues = append(issues, Issue{c.RawRowIndex, "description is empty"})
	}

	return issues
}

// CleanAmount strips currency symbols, thousands separators and whitespace
// from a raw amount cell and parses what remains as a decimal. Only digits,
// the dot and a sign survive the cleaning pass.
func CleanAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("amount '%s' contains no numeric value", raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount '%s' is not a valid number: %w", raw, err)
	}
	return d, nil
}
