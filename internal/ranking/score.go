package ranking

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"lead_finder/internal/domain"
)

const (
	titleMatch      = 10.0
	titleExactMatch = 5.0
	bodyMatch       = 5.0
	titleWordMatch  = 3.0
	bodyWordMatch   = 2.0
	keywordBreadth  = 2.0

	maxEngagementBonus = 5.0
	maxCommentBonus    = 3.0
)

// Score computes the additive relevance heuristic of a post from its matched keywords
// and engagement.
func Score(p domain.CandidatePost) float64 {
	title := strings.ToLower(strings.TrimSpace(p.Title))
	body := strings.ToLower(p.Body)

	score := 0.0
	distinct := make(map[string]bool, len(p.MatchedKeywords))

	for _, raw := range p.MatchedKeywords {
		kw := strings.ToLower(strings.TrimSpace(raw))
		if kw == "" || distinct[kw] {
			continue
		}
		distinct[kw] = true

		if strings.Contains(title, kw) {
			score += titleMatch
			if title == kw {
				score += titleExactMatch
			}
		}
		if strings.Contains(body, kw) {
			score += bodyMatch
		}
		if containsWord(title, kw) {
			score += titleWordMatch
		}
		if containsWord(body, kw) {
			score += bodyWordMatch
		}
	}

	score += keywordBreadth * float64(len(distinct))
	score += clamp(float64(p.EngagementScore)/10, maxEngagementBonus)
	score += clamp(float64(p.CommentCount)/5, maxCommentBonus)

	return score
}

// Rank scores posts, drops those scoring zero or less and sorts the rest by descending
// relevance. Equal scores keep their input order.
func Rank(posts []domain.CandidatePost) []domain.CandidatePost {
	ranked := make([]domain.CandidatePost, 0, len(posts))
	for _, p := range posts {
		p.Relevance = Score(p)
		if p.Relevance <= 0 {
			continue
		}
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})
	return ranked
}

// clamp bounds v to [-limit, limit].
func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(v, limit))
}

// containsWord reports whether kw occurs in text delimited by non-word characters.
func containsWord(text, kw string) bool {
	for start := 0; start <= len(text)-len(kw); {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)
		if !isWordByteBefore(text, i) && !isWordByteAt(text, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordByteBefore(s string, i int) bool {
	r, size := utf8.DecodeLastRuneInString(s[:i])
	return size > 0 && isWordRune(r)
}

func isWordByteAt(s string, i int) bool {
	r, size := utf8.DecodeRuneInString(s[i:])
	return size > 0 && isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
