// backend/src/importer/matcher_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		target  string
		want    string
	}{
		{
			name:    "exact match",
			headers: []string{"Date", "Description", "Amount"},
			target:  "amount",
			want:    "Amount",
		},
		{
			name:    "underscores and spaces ignored",
			headers: []string{"transaction_date", "amount"},
			target:  "Transaction Date",
			want:    "transaction_date",
		},
		{
			name:    "containment match when no exact",
			headers: []string{"Transaction Date", "Amount"},
			target:  "date",
			want:    "Transaction Date",
		},
		{
			name:    "exact wins over earlier containment",
			headers: []string{"Posted Date", "Date"},
			target:  "date",
			want:    "Date",
		},
		{
			name:    "first occurrence wins within a tier",
			headers: []string{"Booking Date", "Value Date"},
			target:  "date",
			want:    "Booking Date",
		},
		{
			name:    "target contained in neither direction",
			headers: []string{"Payee", "Memo"},
			target:  "amount",
			want:    "",
		},
		{
			name:    "empty target",
			headers: []string{"Date", "Amount"},
			target:  "",
			want:    "",
		},
		{
			name:    "no headers",
			headers: nil,
			target:  "date",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchHeader(tt.headers, tt.target))
		})
	}
}
