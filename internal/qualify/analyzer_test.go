package qualify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lead_finder/internal/domain"
	"lead_finder/internal/llm"
)

type completerFunc func(ctx context.Context, req llm.ChatRequest) (string, error)

func (f completerFunc) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	return f(ctx, req)
}

type AnalyzerTestSuite struct {
	suite.Suite

	replies  []func() (string, error)
	requests []llm.ChatRequest

	analyzer *Analyzer
	profile  domain.TenantProfile
}

func (s *AnalyzerTestSuite) SetupTest() {
	s.replies = nil
	s.requests = nil

	completer := completerFunc(func(_ context.Context, req llm.ChatRequest) (string, error) {
		s.requests = append(s.requests, req)
		i := len(s.requests) - 1
		if i >= len(s.replies) {
			return "", errors.New("unexpected call")
		}
		return s.replies[i]()
	})

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.analyzer = New(completer, Config{
		BatchSize:    5,
		Temperature:  0.7,
		RetryBackoff: time.Millisecond,
	}, logger)

	s.profile = domain.TenantProfile{
		ID:                    7,
		Name:                  "PipeCRM",
		Description:           "CRM for early stage startups",
		QualifiedLeadCriteria: "Founders actively comparing CRM tools",
		Keywords: []domain.Keyword{
			{Text: "CRM"}, {Text: "startup"},
		},
	}
}

func TestAnalyzerTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerTestSuite))
}

func (s *AnalyzerTestSuite) reply(text string) {
	s.replies = append(s.replies, func() (string, error) { return text, nil })
}

func (s *AnalyzerTestSuite) fail(err error) {
	s.replies = append(s.replies, func() (string, error) { return "", err })
}

func leads(n int) []domain.GlobalLead {
	out := make([]domain.GlobalLead, n)
	for i := range out {
		out[i] = domain.GlobalLead{
			ID:    int64(i + 1),
			Title: fmt.Sprintf("lead title %d", i+1),
			Body:  fmt.Sprintf("lead body %d", i+1),
		}
	}
	return out
}

func (s *AnalyzerTestSuite) TestQualify_PositionalAssociation() {
	s.reply(`Sure! Here you go:
[{"lead_id":"3","probability":90,"analysis":"first"},
 {"lead_id":"1","probability":10,"analysis":"second"},
 {"lead_id":"2","probability":55,"analysis":"third"}]
Hope this helps.`)

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(3))

	s.Require().NoError(err)
	s.Require().Len(quals, 3)
	s.Equal(domain.Qualification{Probability: 90, Reasoning: "first", Analyzed: true}, quals[0])
	s.Equal(domain.Qualification{Probability: 10, Reasoning: "second", Analyzed: true}, quals[1])
	s.Equal(domain.Qualification{Probability: 55, Reasoning: "third", Analyzed: true}, quals[2])
}

func (s *AnalyzerTestSuite) TestQualify_ShortArrayFillsNotFound() {
	s.reply(`[{"probability":80,"analysis":"a"},{"probability":70,"analysis":"b"}]`)

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(5))

	s.Require().NoError(err)
	s.Require().Len(quals, 5)
	s.Equal(80, quals[0].Probability)
	s.Equal(70, quals[1].Probability)
	for _, q := range quals[2:] {
		s.Equal(domain.Qualification{Reasoning: ReasoningNotFound}, q)
	}
}

func (s *AnalyzerTestSuite) TestQualify_MissingProbabilityFillsNotFound() {
	s.reply(`[{"lead_id":"1","analysis":"no score"},{"probability":null,"analysis":"null score"},` +
		`{"probability":"high"},{"probability":0,"analysis":"zero"}]`)

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(4))

	s.Require().NoError(err)
	s.Require().Len(quals, 4)
	for _, q := range quals[:3] {
		s.Equal(domain.Qualification{Reasoning: ReasoningNotFound}, q)
	}
	s.Equal(domain.Qualification{Probability: 0, Reasoning: "zero", Analyzed: true}, quals[3])
}

func (s *AnalyzerTestSuite) TestQualify_UnparsableReplyFailsBatch() {
	s.reply("I cannot evaluate these posts.")

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(3))

	s.Require().NoError(err)
	s.Require().Len(quals, 3)
	for _, q := range quals {
		s.Equal(domain.Qualification{Reasoning: ReasoningBatchFailed}, q)
	}
}

func (s *AnalyzerTestSuite) TestQualify_MalformedArrayFailsBatch() {
	s.reply(`[{"probability": 80,, }]`)

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(2))

	s.Require().NoError(err)
	s.Equal(ReasoningBatchFailed, quals[0].Reasoning)
	s.Equal(ReasoningBatchFailed, quals[1].Reasoning)
}

func (s *AnalyzerTestSuite) TestQualify_RetriesOnceOnTimeout() {
	s.fail(fmt.Errorf("chat completion: %w", context.DeadlineExceeded))
	s.reply(`[{"probability":65,"analysis":"ok"}]`)

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(1))

	s.Require().NoError(err)
	s.Len(s.requests, 2)
	s.Equal(65, quals[0].Probability)
	s.True(quals[0].Analyzed)
}

func (s *AnalyzerTestSuite) TestQualify_SecondTimeoutFailsBatch() {
	s.fail(context.DeadlineExceeded)
	s.fail(context.DeadlineExceeded)

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(2))

	s.Require().NoError(err)
	s.Len(s.requests, 2)
	s.Equal(ReasoningBatchFailed, quals[1].Reasoning)
}

func (s *AnalyzerTestSuite) TestQualify_ProviderErrorIsNotRetried() {
	s.fail(errors.New("401 unauthorized"))

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(2))

	s.Require().NoError(err)
	s.Len(s.requests, 1)
	s.Equal(ReasoningBatchFailed, quals[0].Reasoning)
}

func (s *AnalyzerTestSuite) TestQualify_CancelledContextSurfaces() {
	ctx, cancel := context.WithCancel(context.Background())
	s.replies = append(s.replies, func() (string, error) {
		cancel()
		return "", context.Canceled
	})

	quals, err := s.analyzer.Qualify(ctx, s.profile, leads(2))

	s.ErrorIs(err, context.Canceled)
	s.Nil(quals)
}

func (s *AnalyzerTestSuite) TestQualify_SplitsIntoBatches() {
	s.reply(`[{"probability":61},{"probability":62},{"probability":63},{"probability":64},{"probability":65}]`)
	s.reply(`[{"probability":"71%","reasoning":"string score"},{"probability":150,"rationale":"clamped"}]`)

	quals, err := s.analyzer.Qualify(context.Background(), s.profile, leads(7))

	s.Require().NoError(err)
	s.Len(s.requests, 2)
	s.Require().Len(quals, 7)
	s.Equal(65, quals[4].Probability)
	s.Equal(domain.Qualification{Probability: 71, Reasoning: "string score", Analyzed: true}, quals[5])
	s.Equal(domain.Qualification{Probability: 100, Reasoning: "clamped", Analyzed: true}, quals[6])
	s.Contains(s.requests[1].User, "LEAD 2: lead title 7 | lead body 7")
}

func (s *AnalyzerTestSuite) TestQualify_PromptContents() {
	s.reply(`[]`)
	batch := []domain.GlobalLead{{
		Title: strings.Repeat("t", 150),
		Body:  "line one\nline two " + strings.Repeat("b", 300),
	}}

	_, err := s.analyzer.Qualify(context.Background(), s.profile, batch)
	s.Require().NoError(err)

	req := s.requests[0]
	s.Equal(qualifySystemPrompt, req.System)
	s.Equal(DefaultMaxTokens, req.MaxTokens)
	s.InDelta(0.7, req.Temperature, 1e-9)
	s.Contains(req.User, "Business: PipeCRM - CRM for early stage startups")
	s.Contains(req.User, "Keywords: crm, startup")
	s.Contains(req.User, "QUALIFIED LEAD CRITERIA: Founders actively comparing CRM tools")
	s.Contains(req.User, "LEAD 1: "+strings.Repeat("t", 100)+" | line one line two ")
	s.NotContains(req.User, strings.Repeat("t", 101))
	s.NotContains(req.User, strings.Repeat("b", 200))
}

func (s *AnalyzerTestSuite) TestQualify_PromptWithoutCriteria() {
	s.reply(`[]`)
	s.profile.QualifiedLeadCriteria = "  "

	_, err := s.analyzer.Qualify(context.Background(), s.profile, leads(1))
	s.Require().NoError(err)

	s.NotContains(s.requests[0].User, "QUALIFIED LEAD CRITERIA")
}

func (s *AnalyzerTestSuite) TestQualify_Empty() {
	quals, err := s.analyzer.Qualify(context.Background(), s.profile, nil)

	s.NoError(err)
	s.Empty(quals)
	s.Empty(s.requests)
}

func (s *AnalyzerTestSuite) TestSuggestKeywords() {
	var items []string
	for i := 0; i < 25; i++ {
		items = append(items, fmt.Sprintf(`{"keyword":"Keyword %d","priority":%d,"reason":"r%d"}`, i, i%4, i))
	}
	s.reply("Keywords:\n[" + `"  CRM for startups ", {"keyword":"crm for startups"}, "x", ` + strings.Join(items, ",") + "]")

	got, err := s.analyzer.SuggestKeywords(context.Background(), "PipeCRM", "https://pipecrm.example", "CRM")

	s.Require().NoError(err)
	s.Len(got, maxSuggestedKeywords)
	s.Equal("crm for startups", got[0].Keyword.Text)
	s.Equal(domain.KeywordAIWebsite, got[0].Keyword.Source)
	s.Equal(2, got[0].Priority)
	s.Equal("keyword 0", got[1].Keyword.Text)
	s.Equal(2, got[1].Priority)
	s.Equal(1, got[2].Priority)
	s.Equal("r1", got[2].Reason)
	s.Contains(s.requests[0].User, "Website: https://pipecrm.example")
}

func (s *AnalyzerTestSuite) TestSuggestKeywords_NoneFound() {
	s.reply(`[]`)

	_, err := s.analyzer.SuggestKeywords(context.Background(), "PipeCRM", "https://pipecrm.example", "")

	s.ErrorIs(err, ErrNoKeywords)
}

func (s *AnalyzerTestSuite) TestSuggestKeywords_RequestError() {
	s.fail(errors.New("boom"))

	_, err := s.analyzer.SuggestKeywords(context.Background(), "PipeCRM", "https://pipecrm.example", "")

	s.Error(err)
}
