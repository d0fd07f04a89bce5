package reddit

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lead_finder/internal/domain"
)

const unknownAuthor = "unknown"

var (
	postIDPattern    = regexp.MustCompile(`/comments/([A-Za-z0-9]+)`)
	communityPattern = regexp.MustCompile(`/r/([A-Za-z0-9_]+)`)
	spacePattern     = regexp.MustCompile(`\s+`)

	feedTimeLayouts = []string{time.RFC3339, time.RFC1123Z, time.RFC1123}
)

// feedStrategy queries the syndication feed endpoint. Feed entries carry no engagement data.
type feedStrategy struct {
	client    *httpClient
	endpoint  string
	sort      string
	timeRange string
}

func (s *feedStrategy) name() string {
	return "feed"
}

func (s *feedStrategy) search(ctx context.Context, query string, limit int) ([]domain.CandidatePost, error) {
	params := url.Values{
		"q":     {query},
		"sort":  {s.sort},
		"t":     {s.timeRange},
		"limit": {strconv.Itoa(limit)},
	}

	body, err := s.client.get(ctx, s.name(), s.endpoint, params, "application/atom+xml, application/rss+xml, application/xml")
	if err != nil {
		return nil, err
	}

	posts, err := parseFeed(body)
	if err != nil {
		return nil, err
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// parseFeed decodes an Atom or RSS document. Atom entries are used when present,
// RSS items otherwise.
func parseFeed(data []byte) ([]domain.CandidatePost, error) {
	var doc feedDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	var posts []domain.CandidatePost
	if len(doc.Entries) > 0 {
		for _, e := range doc.Entries {
			if p, ok := transformEntry(e); ok {
				posts = append(posts, p)
			}
		}
		return posts, nil
	}

	for _, it := range doc.Channel.Items {
		if p, ok := transformItem(it); ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func transformEntry(e feedEntry) (domain.CandidatePost, bool) {
	link := ""
	for _, l := range e.Links {
		if l.Rel == "" || l.Rel == "alternate" {
			link = l.Href
			break
		}
	}

	title := stripHTML(e.Title)
	if title == "" || link == "" {
		return domain.CandidatePost{}, false
	}

	content := e.Content
	if content == "" {
		content = e.Summary
	}

	community := ""
	if len(e.Categories) > 0 {
		community = e.Categories[0].Term
	}
	if community == "" {
		community = matchGroup(communityPattern, link)
	}

	id := matchGroup(postIDPattern, link)
	if id == "" {
		id = strings.TrimPrefix(strings.TrimSpace(e.ID), "t3_")
	}

	published := e.Published
	if published == "" {
		published = e.Updated
	}

	return domain.CandidatePost{
		Source:    SourceID,
		SourceID:  id,
		Title:     title,
		Body:      stripHTML(content),
		Author:    feedAuthor(e.Author.Name),
		Community: community,
		URL:       link,
		Permalink: link,
		CreatedAt: parseFeedTime(published),
	}, true
}

func transformItem(it feedItem) (domain.CandidatePost, bool) {
	link := strings.TrimSpace(it.Link)
	title := stripHTML(it.Title)
	if title == "" || link == "" {
		return domain.CandidatePost{}, false
	}

	community := strings.TrimSpace(it.Category)
	if community == "" {
		community = matchGroup(communityPattern, link)
	}

	author := it.Creator
	if author == "" {
		author = it.Author
	}

	return domain.CandidatePost{
		Source:    SourceID,
		SourceID:  matchGroup(postIDPattern, link),
		Title:     title,
		Body:      stripHTML(it.Description),
		Author:    feedAuthor(author),
		Community: community,
		URL:       link,
		Permalink: link,
		CreatedAt: parseFeedTime(it.PubDate),
	}, true
}

func feedAuthor(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/u/")
	name = strings.TrimPrefix(name, "u/")
	if name == "" {
		return unknownAuthor
	}
	return name
}

func parseFeedTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func matchGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// stripHTML returns the visible text of an HTML fragment with whitespace collapsed.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return cleanText(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanText(s)
	}

	doc.Find("script, style").Remove()
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4, blockquote, pre").Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml(" ")
	})

	return cleanText(doc.Text())
}

func cleanText(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
