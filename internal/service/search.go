package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// SearchResult is one ordered hit from a web search provider
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Searcher is the web-search capability used for company enrichment
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
	Name() string
}

// NewSearcher picks a provider by which credential is configured. The
// purpose-built provider wins when both are present. Returns nil when
// neither is configured.
func NewSearcher(ctx context.Context, tavilyKey, googleKey, googleEngineID string) (Searcher, error) {
	if tavilyKey != "" {
		return NewTavilyClient(tavilyKey, ""), nil
	}
	if googleKey != "" && googleEngineID != "" {
		g, err := NewGoogleSearchClient(ctx, googleKey, googleEngineID)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, nil
}

// ── Tavily ────────────────────────────────────────────

const tavilyBaseURL = "https://api.tavily.com"

// TavilyClient wraps the Tavily search API
type TavilyClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewTavilyClient(apiKey, baseURL string) *TavilyClient {
	if baseURL == "" {
		baseURL = tavilyBaseURL
	}
	return &TavilyClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (c *TavilyClient) Name() string { return "tavily" }

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: KindMissingCredential, Message: "Tavily API key not configured (set TAVILY_API_KEY)"}
	}

	jsonBody, err := json.Marshal(tavilyRequest{Query: query, MaxResults: count, SearchDepth: "basic"})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Tavily API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Tavily API returned %d: %s", resp.StatusCode, string(body[:min(len(body), 500)]))
	}

	var result tavilyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	out := make([]SearchResult, 0, len(result.Results))
	for _, r := range result.Results {
		out = append(out, SearchResult{Title: r.Title, Snippet: r.Content, URL: r.URL})
	}

	log.Debug().Str("provider", c.Name()).Str("query", query).Int("results", len(out)).Msg("Search returned results")

	return out, nil
}

// ── Google Programmable Search ────────────────────────

// GoogleSearchClient wraps the Custom Search JSON API
type GoogleSearchClient struct {
	svc      *customsearch.Service
	engineID string
}

func NewGoogleSearchClient(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*GoogleSearchClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating custom search service: %w", err)
	}
	return &GoogleSearchClient{svc: svc, engineID: engineID}, nil
}

func (c *GoogleSearchClient) Name() string { return "google" }

func (c *GoogleSearchClient) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	// The API caps num at 10
	if count <= 0 || count > 10 {
		count = 10
	}

	res, err := c.svc.Cse.List().Cx(c.engineID).Q(query).Num(int64(count)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calling Custom Search API: %w", err)
	}

	out := make([]SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		snippet := item.Snippet
		if snippet == "" {
			snippet = item.HtmlSnippet
		}
		out = append(out, SearchResult{Title: item.Title, Snippet: snippet, URL: item.Link})
	}

	log.Debug().Str("provider", c.Name()).Str("query", query).Int("results", len(out)).Msg("Search returned results")

	return out, nil
}
