// backend/src/importer/template_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateByID(t *testing.T) {
	tpl, ok := TemplateByID("chase")
	require.True(t, ok)
	assert.Equal(t, "Chase", tpl.DisplayName)
	assert.Equal(t, LayoutMDY, tpl.DateLayout)

	_, ok = TemplateByID("no_such_bank")
	assert.False(t, ok)
}

func TestDetectTemplate(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		wantID  string
	}{
		{
			name:    "chase export",
			headers: []string{"Transaction Date", "Post Date", "Description", "Category", "Type", "Amount"},
			wantID:  "chase",
		},
		{
			name:    "bank of america export",
			headers: []string{"Posted Date", "Reference Number", "Payee", "Address", "Amount"},
			wantID:  "bank_of_america",
		},
		{
			name:    "n26 export",
			headers: []string{"Booking Date", "Partner Name", "Transaction Type", "Amount (EUR)"},
			wantID:  "n26",
		},
		{
			name:    "plain generic file",
			headers: []string{"date", "description", "amount", "category", "type"},
			wantID:  "generic",
		},
		{
			name:    "unrecognized headers fall back to generic",
			headers: []string{"foo", "bar", "baz"},
			wantID:  "generic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantID, DetectTemplate(tt.headers).ID)
		})
	}
}

func TestResolveMapping(t *testing.T) {
	tpl, _ := TemplateByID("chase")
	headers := []string{"Transaction Date", "Description", "Amount", "Category", "Type"}

	m := ResolveMapping(tpl, headers)
	assert.Equal(t, "Transaction Date", m.DateColumn)
	assert.Equal(t, "Amount", m.AmountColumn)
	assert.Equal(t, "Description", m.DescriptionColumn)
	assert.Equal(t, "Category", m.CategoryColumn)
	assert.Equal(t, "Type", m.TypeColumn)
	assert.Equal(t, LayoutMDY, m.DateLayout)
}

func TestResolveMappingMissingColumns(t *testing.T) {
	tpl, _ := TemplateByID("generic")
	m := ResolveMapping(tpl, []string{"when", "how much"})

	assert.Empty(t, m.DateColumn, "no header resolves to date")
	assert.Empty(t, m.AmountColumn)
	assert.Equal(t, "Uncategorized", m.DefaultCategory)
}
