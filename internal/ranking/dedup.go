package ranking

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"

	"lead_finder/internal/domain"
)

var trackingParams = map[string]bool{
	"ref":        true,
	"ref_source": true,
	"share_id":   true,
	"context":    true,
	"fbclid":     true,
	"gclid":      true,
}

// Dedupe drops repeated posts, keeping the first occurrence and the original order.
// Posts are identified by source and source id, or by canonical URL when the id is missing.
// Posts with neither are kept.
func Dedupe(posts []domain.CandidatePost) []domain.CandidatePost {
	seen := make(map[string]bool, len(posts))
	out := make([]domain.CandidatePost, 0, len(posts))

	for _, p := range posts {
		key := identity(p)
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, p)
	}
	return out
}

func identity(p domain.CandidatePost) string {
	if p.SourceID != "" {
		return "id:" + p.Source + ":" + p.SourceID
	}
	if u := CanonicalURL(p.URL); u != "" {
		return "url:" + u
	}
	return ""
}

// CanonicalURL normalizes a URL for identity comparison: lower-cased scheme and host,
// no fragment, no tracking parameters, no trailing slash. Unparseable input is returned trimmed.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""

	q := u.Query()
	for k := range q {
		if strings.HasPrefix(strings.ToLower(k), "utm_") || trackingParams[strings.ToLower(k)] {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// ExternalID returns the id a post is stored under: its source id, or a digest of its
// canonical URL when the source did not provide one.
func ExternalID(p domain.CandidatePost) string {
	if p.SourceID != "" {
		return p.SourceID
	}
	sum := sha1.Sum([]byte(CanonicalURL(p.URL)))
	return "url-" + hex.EncodeToString(sum[:8])
}
