package qualify

import (
	"fmt"
	"strings"

	"lead_finder/internal/domain"
)

const (
	maxTitleChars       = 100
	maxBodyChars        = 200
	maxDescriptionChars = 100

	qualifySystemPrompt = "You are an expert at qualifying business leads and identifying potential customers. " +
		"Analyze each lead carefully and return valid JSON."

	keywordSystemPrompt = "You are an expert at identifying customer pain points and search patterns for lead generation."
)

func buildQualifyPrompt(profile domain.TenantProfile, leads []domain.GlobalLead) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Business: %s - %s\n", profile.Name, truncate(profile.Description, maxDescriptionChars))
	fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(profile.KeywordTexts(), ", "))

	if criteria := strings.TrimSpace(profile.QualifiedLeadCriteria); criteria != "" {
		fmt.Fprintf(&sb, "\nQUALIFIED LEAD CRITERIA: %s\n", criteria)
		sb.WriteString("IMPORTANT: Score 80%+ ONLY if they match the buying intent criteria above.\n")
	}

	fmt.Fprintf(&sb, "\nAnalyze these %d Reddit posts for business relevance:\n", len(leads))
	for i, lead := range leads {
		title := orDefault(truncate(lead.Title, maxTitleChars), "No title")
		body := orDefault(truncate(lead.Body, maxBodyChars), "No content")
		fmt.Fprintf(&sb, "LEAD %d: %s | %s\n", i+1, oneLine(title), oneLine(body))
	}

	sb.WriteString("\nReturn JSON array with probability (0-100) and brief analysis, one element per lead in the same order:\n")
	sb.WriteString(`[{"lead_id": "1", "probability": 85, "analysis": "Seeking solutions"}, {"lead_id": "2", "probability": 20, "analysis": "Not business related"}]`)

	return sb.String()
}

func buildKeywordPrompt(name, website, description string) string {
	return fmt.Sprintf(`Analyze this business and suggest 15-20 relevant keywords for finding potential customers on Reddit.

Business: %s
Website: %s
Description: %s

Focus on:
1. Pain points your target customers might express
2. Problems your product/service solves
3. Industry-specific terms
4. Competitor mentions
5. Solution-seeking language

Return ONLY a JSON array of objects with this format:
[{"keyword": "keyword phrase", "priority": 1, "reason": "why this keyword is relevant"}]

Priority levels: 1=high (most likely to find customers), 2=medium, 3=low`, name, website, description)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
