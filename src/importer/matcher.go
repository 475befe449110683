// backend/src/importer/matcher.go
package importer

import "strings"

// normalizeHeader lowercases a header label and removes spaces and
// underscores, so "Transaction Date", "transaction_date" and
// "TransactionDate" all compare equal.
func normalizeHeader(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// MatchHeader maps an expected header label onto the actual headers of an
// uploaded file. Exact normalized matches win over partial (containment)
// matches; within each tier the first occurrence in header order wins.
// Returns "" when nothing matches.
func MatchHeader(headers []string, target string) string {
	want := normalizeHeader(target)
	if want == "" {
		return ""
	}

	for _, h := range headers {
		if normalizeHeader(h) == want {
			return h
		}
	}
	for _, h := range headers {
		got := normalizeHeader(h)
		if got == "" {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return h
		}
	}
	return ""
}
