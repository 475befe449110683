// backend/src/importer/tokenizer_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantHeaders []string
		wantRows    [][]string
		wantDropped int
		wantErr     bool
	}{
		{
			name:        "simple table",
			input:       "date,description,amount\n2024-01-02,Coffee,3.50\n2024-01-03,Rent,1200.00\n",
			wantHeaders: []string{"date", "description", "amount"},
			wantRows: [][]string{
				{"2024-01-02", "Coffee", "3.50"},
				{"2024-01-03", "Rent", "1200.00"},
			},
		},
		{
			name:        "quoted field with embedded comma",
			input:       "date,description,amount\n2024-01-02,\"Dinner, with friends\",42.00\n",
			wantHeaders: []string{"date", "description", "amount"},
			wantRows:    [][]string{{"2024-01-02", "Dinner, with friends", "42.00"}},
		},
		{
			name:        "crlf line endings and blank lines",
			input:       "date,amount\r\n\r\n2024-01-02,10\r\n\r\n",
			wantHeaders: []string{"date", "amount"},
			wantRows:    [][]string{{"2024-01-02", "10"}},
		},
		{
			name:        "mismatched rows are dropped",
			input:       "date,description,amount\n2024-01-02,Coffee,3.50\nonly-two,fields\n2024-01-03,Rent,1200\n",
			wantHeaders: []string{"date", "description", "amount"},
			wantRows: [][]string{
				{"2024-01-02", "Coffee", "3.50"},
				{"2024-01-03", "Rent", "1200"},
			},
			wantDropped: 1,
		},
		{
			name:        "fields are trimmed",
			input:       "date , amount\n 2024-01-02 ,  10.00 \n",
			wantHeaders: []string{"date", "amount"},
			wantRows:    [][]string{{"2024-01-02", "10.00"}},
		},
		{
			name:    "header only",
			input:   "date,description,amount\n",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Tokenize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeaders, table.Headers)
			assert.Equal(t, tt.wantRows, table.Rows)
			assert.Equal(t, tt.wantDropped, table.Dropped)
		})
	}
}

func TestSplitFieldsKeepsQuotedSeparators(t *testing.T) {
	fields := splitFields(`a,"b,c",d`)
	assert.Equal(t, []string{"a", "b,c", "d"}, fields)
}

func TestCleanFieldStripsQuotesIndependently(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abc"`, "abc"},
		{`"abc`, "abc"},
		{`abc"`, "abc"},
		{`"`, ""},
		{`" padded "`, "padded"},
		{`plain`, "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanField(tt.in), "input %q", tt.in)
	}
}
