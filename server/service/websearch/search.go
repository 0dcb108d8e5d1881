// Package websearch augments general questions with Brave web search
// results and scraped page content.
package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBraveURL = "https://api.search.brave.com/res/v1/web/search"

	searchCount = 10
	// maxResults caps what is handed to the model so the context stays small.
	maxResults = 5
)

// SearchResult is one formatted web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchClient is the Brave web search API client.
type SearchClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSearchClient creates a Brave search client. A zero timeout defaults to
// 30 seconds.
func NewSearchClient(apiKey string, timeout time.Duration) *SearchClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SearchClient{
		apiKey:     apiKey,
		baseURL:    defaultBraveURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search queries Brave with the Vietnamese locale and returns the top hits.
func (c *SearchClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(searchCount))
	params.Set("search_lang", "vi")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create search request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("search returned status %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode search response")
	}

	results := make([]SearchResult, 0, len(payload.Web.Results))
	for _, item := range payload.Web.Results {
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		results = append(results, SearchResult{Title: title, URL: item.URL, Snippet: item.Description})
		if len(results) == maxResults {
			break
		}
	}
	return results, nil
}
