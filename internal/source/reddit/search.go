package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lead_finder/internal/domain"
)

const permalinkBase = "https://www.reddit.com"

// searchStrategy queries the structured JSON search endpoint.
type searchStrategy struct {
	client    *httpClient
	endpoint  string
	sort      string
	timeRange string
}

func (s *searchStrategy) name() string {
	return "search"
}

func (s *searchStrategy) search(ctx context.Context, query string, limit int) ([]domain.CandidatePost, error) {
	params := url.Values{
		"q":     {query},
		"sort":  {s.sort},
		"t":     {s.timeRange},
		"limit": {strconv.Itoa(limit)},
		"type":  {"link"},
	}

	body, err := s.client.get(ctx, s.name(), s.endpoint, params, "application/json")
	if err != nil {
		return nil, err
	}

	var resp listing
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	posts := make([]domain.CandidatePost, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		posts = append(posts, transformPost(child.Data))
	}
	return posts, nil
}

func transformPost(p apiPost) domain.CandidatePost {
	permalink := p.Permalink
	if strings.HasPrefix(permalink, "/") {
		permalink = permalinkBase + permalink
	}

	link := p.URL
	if link == "" {
		link = permalink
	}

	author := p.Author
	if author == "" {
		author = unknownAuthor
	}

	createdAt := time.Now().UTC()
	if p.CreatedUTC > 0 {
		createdAt = time.Unix(int64(p.CreatedUTC), 0).UTC()
	}

	return domain.CandidatePost{
		Source:          SourceID,
		SourceID:        p.ID,
		Title:           strings.TrimSpace(p.Title),
		Body:            strings.TrimSpace(p.Selftext),
		Author:          author,
		Community:       p.Subreddit,
		URL:             link,
		Permalink:       permalink,
		EngagementScore: p.Score,
		CommentCount:    p.NumComments,
		CreatedAt:       createdAt,
	}
}
