// Package duckduckgo implements the websearch port against the DuckDuckGo
// Instant Answer API. No API key is required.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
)

// DefaultBaseURL is the public Instant Answer endpoint.
const DefaultBaseURL = "https://api.duckduckgo.com"

// maxResponseSize bounds the response body read.
const maxResponseSize = 4 << 20 // 4 MB

// Config holds the search client settings.
type Config struct {
	BaseURL            string
	Timeout            time.Duration
	CacheMaxSizeBytes  int64
	CacheTTL           time.Duration
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// Client queries DuckDuckGo and maps instant-answer records onto
// title/body/url triples. Results are cached per query+limit so repeated
// directives across tasks do not hammer the provider, and all calls go
// through a circuit breaker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *ristretto.Cache[string, []research.SearchResult]
	cacheTTL   time.Duration
	breaker    *gobreaker.CircuitBreaker[[]research.SearchResult]
}

// NewClient creates a search client. Zero-valued config fields fall back to
// working defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheMaxSizeBytes == 0 {
		cfg.CacheMaxSizeBytes = 8 << 20
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []research.SearchResult]{
		NumCounters: cfg.CacheMaxSizeBytes / 100 * 10, // ~10x expected items
		MaxCost:     cfg.CacheMaxSizeBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[[]research.SearchResult](gobreaker.Settings{
		Name:    "duckduckgo",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
		breaker:    breaker,
	}, nil
}

// instantAnswer is the subset of the Instant Answer response we consume.
type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

// relatedTopic is either a result or a nested group of results.
type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"`
}

// Search returns up to limit results for the query. An empty result list is
// not an error; an error means the provider could not be reached or answered
// with a non-2xx status.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]research.SearchResult, error) {
	key := fmt.Sprintf("%s|%d", query, limit)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	results, err := c.breaker.Execute(func() ([]research.SearchResult, error) {
		return c.search(ctx, query, limit)
	})
	if err != nil {
		return nil, err
	}

	c.cache.SetWithTTL(key, results, int64(len(results)+1), c.cacheTTL)
	return results, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]research.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	return flatten(&answer, limit), nil
}

// flatten maps the instant answer onto at most limit flat results: the
// abstract first, then related topics in order, descending into groups.
func flatten(answer *instantAnswer, limit int) []research.SearchResult {
	results := make([]research.SearchResult, 0, limit)

	if answer.AbstractText != "" {
		results = append(results, research.SearchResult{
			Title: answer.Heading,
			Body:  answer.AbstractText,
			URL:   answer.AbstractURL,
		})
	}

	var walk func(topics []relatedTopic)
	walk = func(topics []relatedTopic) {
		for _, t := range topics {
			if len(results) >= limit {
				return
			}
			if len(t.Topics) > 0 {
				walk(t.Topics)
				continue
			}
			if t.Text == "" {
				continue
			}
			// Topic text reads "Subject - description"; keep the subject
			// as the title when that shape holds.
			title := t.Text
			if i := strings.Index(t.Text, " - "); i > 0 {
				title = t.Text[:i]
			}
			results = append(results, research.SearchResult{
				Title: title,
				Body:  t.Text,
				URL:   t.FirstURL,
			})
		}
	}
	walk(answer.RelatedTopics)

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Close releases the cache resources.
func (c *Client) Close() {
	c.cache.Close()
}
