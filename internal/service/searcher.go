package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/completion"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/websearch"
)

const summarizerInstructions = `You are a perfume expert analyzing search results.
Summarize the key information about perfumes found in these search results.
Focus on:
- Specific perfume names and brands mentioned
- Fragrance notes described
- User reviews and ratings
- Price range if mentioned

Be concise but include specific product names.`

// Searcher executes every directive of a plan concurrently: one web search
// plus one summarizing completion call per directive.
type Searcher struct {
	provider   websearch.Provider
	llm        completion.Completer
	maxResults int
}

// NewSearcher creates a Searcher. maxResults caps the provider results per
// directive.
func NewSearcher(provider websearch.Provider, llm completion.Completer, maxResults int) *Searcher {
	return &Searcher{provider: provider, llm: llm, maxResults: maxResults}
}

// Search fans out one goroutine per directive and joins them all. A failed
// directive is logged and dropped; it never fails its siblings and Search
// itself never fails, so the returned list may be shorter than the input.
func (s *Searcher) Search(ctx context.Context, directives []research.Directive) []research.Finding {
	slots := make([]*research.Finding, len(directives))

	var g errgroup.Group
	for i, d := range directives {
		g.Go(func() error {
			f, err := s.searchAndSummarize(ctx, d)
			if err != nil {
				slog.Warn("search directive dropped", "query", d.Query, "error", err)
				return nil
			}
			slots[i] = f
			return nil
		})
	}
	_ = g.Wait() // units report nil; failures are dropped above

	findings := make([]research.Finding, 0, len(slots))
	for _, f := range slots {
		if f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// searchAndSummarize runs one directive end to end. A provider outage is not
// fatal to the unit: it degrades to an empty result block and the summary
// call still runs.
func (s *Searcher) searchAndSummarize(ctx context.Context, d research.Directive) (*research.Finding, error) {
	results, err := s.provider.Search(ctx, d.Query, s.maxResults)
	if err != nil {
		slog.Warn("web search failed", "query", d.Query, "error", err)
		results = nil
	}

	prompt := fmt.Sprintf(`Search query: %s
Focus area: %s

Search results:
%s

Summarize the perfume-related information found.`, d.Query, d.Focus, formatResults(results))

	summary, err := s.llm.Complete(ctx, completion.Request{
		Instructions: summarizerInstructions,
		Prompt:       prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize %q: %w", d.Query, err)
	}

	return &research.Finding{
		Query:   d.Query,
		Results: results,
		Summary: summary,
	}, nil
}

// formatResults renders provider results as a numbered text block for the
// summarizer prompt.
func formatResults(results []research.SearchResult) string {
	if len(results) == 0 {
		return "No search results found."
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   %s\n", r.Body)
		fmt.Fprintf(&b, "   URL: %s\n\n", r.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}
