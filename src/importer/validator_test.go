// backend/src/importer/validator_test.go
package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validatorNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	candidates := []CandidateTransaction{
		{RawRowIndex: 0, Date: "2024-01-15", Amount: "-3.50", Description: "Coffee"},
		{RawRowIndex: 1, Date: "not a date", Amount: "abc", Description: ""},
		{RawRowIndex: 2, Date: "2024-12-31", Amount: "10.00", Description: "Future"},
	}

	issues := Validate(candidates, LayoutYMD, validatorNow)

	byRow := map[int]int{}
	for _, issue := range issues {
		byRow[issue.RowIndex]++
	}
	assert.Zero(t, byRow[0], "valid row produces no issues")
	assert.Equal(t, 3, byRow[1], "bad date, bad amount and blank description all reported")
	assert.Equal(t, 1, byRow[2], "future date reported")
}

func TestValidateBlankDescriptionOnly(t *testing.T) {
	issues := Validate([]CandidateTransaction{
		{RawRowIndex: 0, Date: "2024-01-15", Amount: "5.00", Description: "   "},
	}, LayoutYMD, validatorNow)

	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].RowIndex)
	assert.Contains(t, issues[0].Message, "description")
}

func TestValidateIsIdempotent(t *testing.T) {
	candidates := []CandidateTransaction{
		{RawRowIndex: 0, Date: "bad", Amount: "x", Description: ""},
	}
	first := Validate(candidates, LayoutYMD, validatorNow)
	second := Validate(candidates, LayoutYMD, validatorNow)
	assert.Equal(t, first, second)
}

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"1234.56", "1234.56", false},
		{"-3.50", "-3.5", false},
		{"$1,234.56", "1234.56", false},
		{"€ 42,00", "4200", false},
		{"+10", "10", false},
		{"", "", true},
		{"abc", "", true},
		{"--5", "", true},
	}
	for _, tt := range tests {
		got, err := CleanAmount(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		want, _ := decimal.NewFromString(tt.want)
		assert.True(t, got.Equal(want), "raw=%q got=%s want=%s", tt.raw, got, want)
	}
}
