package reddit

import "strings"

const (
	DefaultMaxKeywordsPerBatch = 12
	DefaultMaxQueryLength      = 1800
)

// queryCost is the length a keyword adds to a disjunctive query: the quotes plus the " OR " joiner.
func queryCost(keyword string) int {
	return len(phrase(keyword)) + len(`"" OR `)
}

// phrase drops double quotes so a keyword cannot close its own quoted term.
func phrase(keyword string) string {
	return strings.TrimSpace(strings.ReplaceAll(keyword, `"`, ""))
}

// BatchKeywords splits keywords into ordered batches of at most maxCount keywords whose
// serialized query stays within maxLength. A keyword longer than maxLength on its own gets
// a batch of its own.
func BatchKeywords(keywords []string, maxCount, maxLength int) [][]string {
	if maxCount <= 0 {
		maxCount = DefaultMaxKeywordsPerBatch
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxQueryLength
	}

	var batches [][]string
	var current []string
	length := 0

	for _, kw := range keywords {
		cost := queryCost(kw)
		if len(current) > 0 && (len(current) >= maxCount || length+cost > maxLength) {
			batches = append(batches, current)
			current = nil
			length = 0
		}
		current = append(current, kw)
		length += cost
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}

// BuildQuery renders a batch as ("kw1" OR "kw2" ...). Double quotes inside keywords are removed
// and keywords left empty are skipped.
func BuildQuery(batch []string) string {
	quoted := make([]string, 0, len(batch))
	for _, kw := range batch {
		if p := phrase(kw); p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}
