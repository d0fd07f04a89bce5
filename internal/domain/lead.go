package domain

import "time"

// SourceReddit identifies posts discovered on Reddit.
const SourceReddit = "reddit"

// CandidatePost is a post produced by a source fetch, before persistence.
type CandidatePost struct {
	Source          string // identifies the source (e.g., "reddit")
	SourceID        string
	Title           string
	Body            string
	Author          string
	Community       string // subreddit
	URL             string
	Permalink       string
	EngagementScore int
	CommentCount    int
	CreatedAt       time.Time
	MatchedKeywords []string
	Relevance       float64
}

// GlobalLead is a stored candidate shared by all tenants.
type GlobalLead struct {
	ID              int64     `db:"id"`
	Source          string    `db:"source"`
	ExternalID      string    `db:"external_id"`
	Title           string    `db:"title"`
	Body            string    `db:"body"`
	Author          string    `db:"author"`
	Community       string    `db:"community"`
	URL             string    `db:"url"`
	Permalink       string    `db:"permalink"`
	EngagementScore int       `db:"engagement_score"`
	CommentCount    int       `db:"comment_count"`
	PostedAt        time.Time `db:"posted_at"`
	ScrapedAt       time.Time `db:"scraped_at"`

	// MatchedKeywords is filled per tenant by the keyword filter and never stored on the global row.
	MatchedKeywords []string `db:"-"`
}

type KeywordSource string

const (
	KeywordManual    KeywordSource = "manual"
	KeywordAIWebsite KeywordSource = "ai_website"
)

type Keyword struct {
	ID       int64         `db:"id"`
	TenantID int64         `db:"tenant_id"`
	Text     string        `db:"keyword"`
	Source   KeywordSource `db:"source"`
}

// TenantProfile is what the qualifier knows about a customer account.
type TenantProfile struct {
	ID                    int64
	Name                  string
	Description           string
	QualifiedLeadCriteria string
	Keywords              []Keyword
}

// KeywordTexts returns the tenant keywords lower-cased, in stored order, without blanks or repeats.
func (p TenantProfile) KeywordTexts() []string {
	seen := make(map[string]bool, len(p.Keywords))
	out := make([]string, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		t := NormalizeKeyword(k.Text)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// TenantLead is a global lead qualified for one tenant.
type TenantLead struct {
	ID              int64
	TenantID        int64
	GlobalLeadID    int64
	AIScore         int
	AIReasoning     string
	MatchedKeywords []string
	ProcessedAt     time.Time
}

// Qualification is the model verdict for one lead.
type Qualification struct {
	Probability int
	Reasoning   string
	// Analyzed is false when the verdict is a fallback (batch failed, result missing).
	Analyzed bool
}
