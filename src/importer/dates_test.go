// backend/src/importer/dates_test.go
package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		layout DateLayout
		want   time.Time
		ok     bool
	}{
		{"ymd dashes", "2024-03-15", LayoutYMD, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"mdy slashes", "03/15/2024", LayoutMDY, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"dmy dots", "15.03.2024", LayoutDMY, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"leap day valid", "2024-02-29", LayoutYMD, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"leap day on non-leap year", "02/29/2023", LayoutMDY, time.Time{}, false},
		{"rollover rejected", "2024-02-30", LayoutYMD, time.Time{}, false},
		{"surrounding noise stripped", " 2024-03-15 ", LayoutYMD, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"two parts", "2024-03", LayoutYMD, time.Time{}, false},
		{"four parts", "2024-03-15-01", LayoutYMD, time.Time{}, false},
		{"empty", "", LayoutYMD, time.Time{}, false},
		{"month out of range", "2024-13-01", LayoutYMD, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, tt.layout)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}
