package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead_finder/internal/domain"
)

func TestNewLeadMessage(t *testing.T) {
	posted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	lead := &domain.TenantLead{
		ID:              7,
		TenantID:        3,
		GlobalLeadID:    42,
		AIScore:         85,
		AIReasoning:     "asks for CRM recommendations",
		MatchedKeywords: []string{"crm"},
	}
	global := &domain.GlobalLead{
		ID:         42,
		Source:     domain.SourceReddit,
		ExternalID: "abc123",
		Title:      "Best CRM for startups?",
		Author:     "founder",
		Community:  "startups",
		URL:        "https://example.com/out",
		Permalink:  "https://www.reddit.com/r/startups/comments/abc123/",
		PostedAt:   posted,
	}

	msg := newLeadMessage(lead, global, now)

	assert.Equal(t, EventLeadQualified, msg.Event)
	assert.Equal(t, int64(3), msg.TenantID)
	assert.Equal(t, int64(7), msg.TenantLeadID)
	assert.Equal(t, int64(42), msg.GlobalLeadID)
	assert.Equal(t, 85, msg.Score)
	assert.Equal(t, "https://www.reddit.com/r/startups/comments/abc123/", msg.URL)
	assert.Equal(t, "abc123", msg.ExternalID)
	assert.Equal(t, time.UTC, msg.Timestamp.Location())

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"event":"lead.qualified"`)
	assert.Contains(t, string(body), `"matched_keywords":["crm"]`)
}

func TestNewLeadMessage_FallsBackToURL(t *testing.T) {
	msg := newLeadMessage(&domain.TenantLead{TenantID: 1}, &domain.GlobalLead{URL: "https://example.com/post"}, time.Now())
	assert.Equal(t, "https://example.com/post", msg.URL)

	msg = newLeadMessage(&domain.TenantLead{TenantID: 1}, nil, time.Now())
	assert.Empty(t, msg.URL)
	assert.Equal(t, int64(1), msg.TenantID)
}
