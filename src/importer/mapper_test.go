// backend/src/importer/mapper_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRows(t *testing.T) {
	table := &RawTable{
		Headers: []string{"Transaction Date", "Description", "Amount", "Category", "Type", "Memo"},
		Rows: [][]string{
			{"01/15/2024", "Coffee", "-3.50", "Food", "debit", "morning"},
			{"01/16/2024", "Salary", "2500.00", "", "credit", ""},
			{"01/17/2024", "Mystery", "10.00", "Misc", "transfer", "note"},
		},
	}
	mapping := ColumnMapping{
		DateColumn:        "Transaction Date",
		AmountColumn:      "Amount",
		DescriptionColumn: "Description",
		CategoryColumn:    "Category",
		TypeColumn:        "Type",
		DateLayout:        LayoutMDY,
		DefaultCategory:   "Uncategorized",
		DefaultType:       "expense",
	}

	got := MapRows(table, mapping)
	require.Len(t, got, 3)

	assert.Equal(t, 0, got[0].RawRowIndex)
	assert.Equal(t, "01/15/2024", got[0].Date)
	assert.Equal(t, "Coffee", got[0].Description)
	assert.Equal(t, "Food", got[0].Category)
	assert.Equal(t, "expense", got[0].Type, "debit folds to expense")
	assert.Equal(t, map[string]string{"Memo": "morning"}, got[0].Extra)

	assert.Equal(t, "Uncategorized", got[1].Category, "empty category falls back to default")
	assert.Equal(t, "income", got[1].Type, "credit folds to income")

	assert.Equal(t, "expense", got[2].Type, "unrecognized type falls back to default")
}

func TestMapRowsUnmappedColumns(t *testing.T) {
	table := &RawTable{
		Headers: []string{"Date", "Amount"},
		Rows:    [][]string{{"2024-01-02", "10"}},
	}
	mapping := ColumnMapping{
		DateColumn:      "Date",
		AmountColumn:    "Amount",
		DateLayout:      LayoutYMD,
		DefaultCategory: "Uncategorized",
		DefaultType:     "expense",
	}

	got := MapRows(table, mapping)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Description)
	assert.Equal(t, "Uncategorized", got[0].Category)
	assert.Equal(t, "expense", got[0].Type)
	assert.Nil(t, got[0].Extra)
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"income", "income"},
		{"Credit", "income"},
		{"DEPOSIT", "income"},
		{"expense", "expense"},
		{"debit", "expense"},
		{"Withdrawal", "expense"},
		{"", "expense"},
		{"transfer", "expense"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeType(tt.raw, "expense"), "raw=%q", tt.raw)
	}
}
