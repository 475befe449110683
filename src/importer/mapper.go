// backend/src/importer/mapper.go
package importer

import "strings"

// CandidateTransaction is one data row projected through a ColumnMapping.
// Field values are raw strings at this stage; parsing and validation happen
// later so a preview can show exactly what the file contained.
type CandidateTransaction struct {
	RawRowIndex int               `json:"rawRowIndex"`
	Date        string            `json:"date"`
	Amount      string            `json:"amount"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Type        string            `json:"type"`
	Extra       map[string]string `json:"extra,omitempty"`
}

var incomeAliases = map[string]bool{
	"income":  true,
	"credit":  true,
	"deposit": true,
}

var expenseAliases = map[string]bool{
	"expense":    true,
	"debit":      true,
	"withdrawal": true,
}

// MapRows projects every row of a tokenized table through the mapping.
// Mapping is permissive: an unmapped or out-of-range column yields an empty
// value, and empty category/type cells fall back to the mapping's defaults.
// Columns not claimed by the mapping are preserved verbatim in Extra.
func MapRows(table *RawTable, mapping ColumnMapping) []CandidateTransaction {
	dateIdx := columnIndex(table.Headers, mapping.DateColumn)
	amountIdx := columnIndex(table.Headers, mapping.AmountColumn)
	descIdx := columnIndex(table.Headers, mapping.DescriptionColumn)
	categoryIdx := columnIndex(table.Headers, mapping.CategoryColumn)
	typeIdx := columnIndex(table.Headers, mapping.TypeColumn)

	mapped := map[int]bool{}
	for _, idx := range []int{dateIdx, amountIdx, descIdx, categoryIdx, typeIdx} {
		if idx >= 0 {
			mapped[idx] = true
		}
	}

	candidates := make([]CandidateTransaction, 0, len(table.Rows))
	for i, row := range table.Rows {
		c := CandidateTransaction{
			RawRowIndex: i,
			Date:        cellAt(row, dateIdx),
			Amount:      cellAt(row, amountIdx),
			Description: cellAt(row, descIdx),
			Category:    cellAt(row, categoryIdx),
			Type:        normalizeType(cellAt(row, typeIdx), mapping.DefaultType),
		}
		if c.Category == "" {
			c.Category = mapping.DefaultCategory
		}
		for idx, h := range table.Headers {
			if mapped[idx] || idx >= len(row) {
				continue
			}
			if c.Extra == nil {
				c.Extra = map[string]string{}
			}
			c.Extra[h] = row[idx]
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func columnIndex(headers []string, column string) int {
	if column == "" {
		return -1
	}
	for i, h := range headers {
		if h == column {
			return i
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeType folds common bank vocabulary onto the two canonical
// transaction types. Anything unrecognized gets the template default.
func normalizeType(raw, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case incomeAliases[v]:
		return "income"
	case expenseAliases[v]:
		return "expense"
	default:
		return fallback
	}
}
