package ranking

import "strings"

// MatchKeywords returns the keywords found in text, in keyword order. Matching is
// case-insensitive: a keyword matches when it appears as a substring, or when every
// word of a multi-word keyword appears somewhere in the text.
func MatchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)

	var matched []string
	for _, kw := range keywords {
		needle := strings.ToLower(strings.TrimSpace(kw))
		if needle == "" {
			continue
		}
		if strings.Contains(lower, needle) || allWordsPresent(lower, needle) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func allWordsPresent(text, keyword string) bool {
	words := strings.Fields(keyword)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
