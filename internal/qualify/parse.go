package qualify

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lead_finder/internal/domain"
)

var errNoJSONArray = errors.New("no JSON array in response")

// extractArray returns the outermost [...] substring of raw.
func extractArray(raw string) (string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return "", errNoJSONArray
	}
	return raw[start : end+1], nil
}

// parseQualifications decodes a model reply into one verdict per lead, by position.
// Missing or non-object elements, and objects without a usable probability, get the
// not-found fallback.
func parseQualifications(raw string, n int) ([]domain.Qualification, error) {
	arr, err := extractArray(raw)
	if err != nil {
		return nil, err
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(arr), &elems); err != nil {
		return nil, fmt.Errorf("decode verdicts: %w", err)
	}

	out := make([]domain.Qualification, n)
	for i := range out {
		out[i] = notFound()
		if i >= len(elems) {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal(elems[i], &obj); err != nil || obj == nil {
			continue
		}

		p, ok := probability(obj["probability"])
		if !ok {
			continue
		}
		out[i] = domain.Qualification{
			Probability: p,
			Reasoning:   firstString(obj, "analysis", "reasoning", "rationale"),
			Analyzed:    true,
		}
	}
	return out, nil
}

// probability accepts a number or a numeric string (optionally with a % sign) and clamps it to 0-100.
// It reports false when v is absent, null or not numeric.
func probability(v any) (int, bool) {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(p), "%"), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) {
		return 0, false
	}
	return int(math.Round(math.Max(0, math.Min(100, f)))), true
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// KeywordSuggestion is one AI-proposed tracking keyword.
type KeywordSuggestion struct {
	Keyword  domain.Keyword
	Priority int
	Reason   string
}

func parseKeywordSuggestions(raw string) ([]KeywordSuggestion, error) {
	arr, err := extractArray(raw)
	if err != nil {
		return nil, err
	}

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(arr), &elems); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}

	seen := make(map[string]bool, len(elems))
	var out []KeywordSuggestion
	for _, e := range elems {
		var s KeywordSuggestion

		var text string
		var obj map[string]any
		switch {
		case json.Unmarshal(e, &text) == nil:
		case json.Unmarshal(e, &obj) == nil && obj != nil:
			text = firstString(obj, "keyword")
			s.Reason = firstString(obj, "reason")
			if p, ok := obj["priority"].(float64); ok {
				s.Priority = int(p)
			}
		}

		text = domain.NormalizeKeyword(text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true

		if s.Priority < 1 || s.Priority > 3 {
			s.Priority = 2
		}
		s.Keyword = domain.Keyword{Text: text, Source: domain.KeywordAIWebsite}
		out = append(out, s)
	}
	return out, nil
}
