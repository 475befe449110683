// backend/src/importer/template.go
package importer

import "github.com/agnivade/levenshtein"

// DateLayout names the order of the three date components in a source file.
type DateLayout string

const (
	LayoutYMD DateLayout = "YMD"
	LayoutMDY DateLayout = "MDY"
	LayoutDMY DateLayout = "DMY"
)

// ExpectedHeaders lists the header labels a bank's export uses for the five
// logical transaction fields. Category and Type may be empty for banks that
// do not export them.
type ExpectedHeaders struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
	Type        string `json:"type,omitempty"`
}

// SourceTemplate describes one known export convention. Templates are
// immutable and defined at process start; adding a bank means adding an entry
// here, never touching the matching logic.
type SourceTemplate struct {
	ID              string          `json:"id"`
	DisplayName     string          `json:"displayName"`
	Expected        ExpectedHeaders `json:"expectedHeaders"`
	DateLayout      DateLayout      `json:"dateLayout"`
	DefaultCategory string          `json:"defaultCategory"`
	DefaultType     string          `json:"defaultType"`
}

var catalog = []SourceTemplate{
	{
		ID:          "generic",
		DisplayName: "Generic CSV",
		Expected: ExpectedHeaders{
			Date:        "date",
			Description: "description",
			Amount:      "amount",
			Category:    "category",
			Type:        "type",
		},
		DateLayout:      LayoutYMD,
		DefaultCategory: "Uncategorized",
		DefaultType:     "expense",
	},
	{
		ID:          "chase",
		DisplayName: "Chase",
		Expected: ExpectedHeaders{
			Date:        "Transaction Date",
			Description: "Description",
			Amount:      "Amount",
			Category:    "Category",
			Type:        "Type",
		},
		DateLayout:      LayoutMDY,
		DefaultCategory: "Uncategorized",
		DefaultType:     "expense",
	},
	{
		ID:          "bank_of_america",
		DisplayName: "Bank of America",
		Expected: ExpectedHeaders{
			Date:        "Posted Date",
			Description: "Payee",
			Amount:      "Amount",
		},
		DateLayout:      LayoutMDY,
		DefaultCategory: "Uncategorized",
		DefaultType:     "expense",
	},
	{
		ID:          "monzo",
		DisplayName: "Monzo",
		Expected: ExpectedHeaders{
			Date:        "Date",
			Description: "Name",
			Amount:      "Amount",
			Category:    "Category",
		},
		DateLayout:      LayoutDMY,
		DefaultCategory: "Uncategorized",
		DefaultType:     "expense",
	},
	{
		ID:          "n26",
		DisplayName: "N26",
		Expected: ExpectedHeaders{
			Date:        "Booking Date",
			Description: "Partner Name",
			Amount:      "Amount (EUR)",
			Type:        "Transaction Type",
		},
		DateLayout:      LayoutYMD,
		DefaultCategory: "Uncategorized",
		DefaultType:     "expense",
	},
}

// Catalog returns the immutable template catalog.
func Catalog() []SourceTemplate {
	out := make([]SourceTemplate, len(catalog))
	copy(out, catalog)
	return out
}

// TemplateByID looks a template up by its identifier.
func TemplateByID(id string) (SourceTemplate, bool) {
	for _, tpl := range catalog {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return SourceTemplate{}, false
}

// DetectTemplate picks the catalog entry whose expected headers best fit the
// actual headers of an uploaded file. Each expected label that resolves via
// MatchHeader scores; an exact normalized match scores higher than a partial
// one. Ties break toward the template whose labels sit at the smallest total
// edit distance from the headers they resolved to. Falls back to "generic".
func DetectTemplate(headers []string) SourceTemplate {
	best, _ := TemplateByID("generic")
	bestScore := -1
	bestDist := 0

	for _, tpl := range catalog {
		score, dist := scoreTemplate(tpl, headers)
		if score > bestScore || (score == bestScore && dist < bestDist) {
			best, bestScore, bestDist = tpl, score, dist
		}
	}
	return best
}

func scoreTemplate(tpl SourceTemplate, headers []string) (score, dist int) {
	for _, want := range []string{
		tpl.Expected.Date,
		tpl.Expected.Description,
		tpl.Expected.Amount,
		tpl.Expected.Category,
		tpl.Expected.Type,
	} {
		if want == "" {
			continue
		}
		got := MatchHeader(headers, want)
		if got == "" {
			continue
		}
		if normalizeHeader(got) == normalizeHeader(want) {
			score += 2
		} else {
			score++
		}
		dist += levenshtein.ComputeDistance(normalizeHeader(got), normalizeHeader(want))
	}
	return score, dist
}

// ColumnMapping is the resolved correspondence between a file's actual
// headers and the five logical transaction fields, plus the defaults applied
// when an optional column is absent.
type ColumnMapping struct {
	DateColumn        string     `json:"dateColumn"`
	AmountColumn      string     `json:"amountColumn"`
	DescriptionColumn string     `json:"descriptionColumn"`
	CategoryColumn    string     `json:"categoryColumn,omitempty"`
	TypeColumn        string     `json:"typeColumn,omitempty"`
	DateLayout        DateLayout `json:"dateLayout"`
	DefaultCategory   string     `json:"defaultCategory"`
	DefaultType       string     `json:"defaultType"`
}

// ResolveMapping matches a template's expected headers against the actual
// headers. Resolution is permissive: a required field that cannot be matched
// resolves empty and is caught by validation, not here.
func ResolveMapping(tpl SourceTemplate, headers []string) ColumnMapping {
	return ColumnMapping{
		DateColumn:        MatchHeader(headers, tpl.Expected.Date),
		AmountColumn:      MatchHeader(headers, tpl.Expected.Amount),
		DescriptionColumn: MatchHeader(headers, tpl.Expected.Description),
		CategoryColumn:    matchOptional(headers, tpl.Expected.Category),
		TypeColumn:        matchOptional(headers, tpl.Expected.Type),
		DateLayout:        tpl.DateLayout,
		DefaultCategory:   tpl.DefaultCategory,
		DefaultType:       tpl.DefaultType,
	}
}

func matchOptional(headers []string, target string) string {
	if target == "" {
		return ""
	}
	return MatchHeader(headers, target)
}
