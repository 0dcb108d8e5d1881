package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service combines search and scraping for the chat pipeline. Failures in
// either stage degrade to fewer (or no) sources instead of failing the chat.
type Service struct {
	search  *SearchClient
	scraper *Scraper
}

// NewService creates a web search service.
func NewService(braveAPIKey string, timeout time.Duration) *Service {
	return &Service{
		search:  NewSearchClient(braveAPIKey, timeout),
		scraper: NewScraper(timeout),
	}
}

// Context is the material gathered for one question.
type Context struct {
	Results []SearchResult
	Pages   []Page
}

// Gather searches the web for the question and scrapes the top result pages.
func (s *Service) Gather(ctx context.Context, query string) *Context {
	results, err := s.search.Search(ctx, query)
	if err != nil {
		slog.Warn("web search failed", "error", err)
		return &Context{}
	}

	urls := make([]string, 0, len(results))
	for _, result := range results {
		urls = append(urls, result.URL)
	}
	return &Context{
		Results: results,
		Pages:   s.scraper.ScrapeURLs(ctx, urls),
	}
}

// PromptContext renders the gathered material as model context.
func (c *Context) PromptContext() string {
	if len(c.Results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Thông tin tìm kiếm từ web:\n\n")
	for i, result := range c.Results {
		fmt.Fprintf(&b, "[%d] %s\n%s\n%s\n\n", i+1, result.Title, result.URL, result.Snippet)
	}
	for _, page := range c.Pages {
		fmt.Fprintf(&b, "Trích từ %s:\n%s\n\n", page.URL, page.Content)
	}
	return b.String()
}
