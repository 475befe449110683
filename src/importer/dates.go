// backend/src/importer/dates.go
package importer

import (
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a date string according to one of the three supported
// layouts. All characters except digits and the separators '/', '-' and '.'
// are stripped first; the remainder must split into exactly three numeric
// parts. The constructed date is re-validated component by component, which
// rejects rollover such as "31/02/2024" that time.Date would silently fold
// into March. Reports ok=false on any structural or calendar failure.
func ParseDate(raw string, layout DateLayout) (time.Time, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '/' || r == '-' || r == '.' {
			return r
		}
		return -1
	}, raw)

	parts := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	var year, month, day int
	switch layout {
	case LayoutYMD:
		year, month, day = nums[0], nums[1], nums[2]
	case LayoutMDY:
		month, day, year = nums[0], nums[1], nums[2]
	case LayoutDMY:
		day, month, year = nums[0], nums[1], nums[2]
	default:
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
