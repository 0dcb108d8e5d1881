package websearch

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

const (
	// maxScrapeURLs bounds how many result pages are fetched per question.
	maxScrapeURLs = 3
	// maxCharsPerPage bounds the extracted text per page.
	maxCharsPerPage = 300

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// skippedTags are stripped before text extraction.
var skippedTags = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true,
	"header": true, "aside": true, "iframe": true, "form": true,
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Page is the scraped content of one result URL.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Scraper fetches search result pages and extracts their main text.
type Scraper struct {
	httpClient *http.Client
}

// NewScraper creates a scraper. A zero timeout defaults to 10 seconds.
func NewScraper(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{httpClient: &http.Client{Timeout: timeout}}
}

// ScrapeURLs fetches up to maxScrapeURLs pages concurrently. Pages that fail
// or yield no text are dropped; order of the input URLs is preserved.
func (s *Scraper) ScrapeURLs(ctx context.Context, urls []string) []Page {
	if len(urls) > maxScrapeURLs {
		urls = urls[:maxScrapeURLs]
	}

	pages := make([]*Page, len(urls))
	var wg sync.WaitGroup
	for i, pageURL := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if page, err := s.ScrapeURL(ctx, pageURL); err == nil && page.Content != "" {
				pages[i] = page
			}
		}()
	}
	wg.Wait()

	var scraped []Page
	for _, page := range pages {
		if page != nil {
			scraped = append(scraped, *page)
		}
	}
	return scraped
}

// ScrapeURL fetches one page and extracts its title and main text.
func (s *Scraper) ScrapeURL(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Page{URL: pageURL}, nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	title, paragraphs := extractContent(doc)
	return &Page{
		URL:     pageURL,
		Title:   title,
		Content: cleanAndLimit(strings.Join(paragraphs, " ")),
	}, nil
}

// extractContent walks the document, skipping boilerplate elements, and
// collects the title plus paragraphs long enough to carry meaning.
func extractContent(doc *html.Node) (string, []string) {
	var title string
	var paragraphs []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedTags[n.Data] {
				return
			}
			switch n.Data {
			case "title":
				if title == "" {
					title = strings.TrimSpace(textOf(n))
				}
				return
			case "p":
				if text := strings.TrimSpace(textOf(n)); len(text) > 20 {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return title, paragraphs
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

// cleanAndLimit collapses whitespace and cuts the text at a word boundary
// near the per-page limit.
func cleanAndLimit(content string) string {
	content = strings.TrimSpace(whitespaceRe.ReplaceAllString(content, " "))
	if len(content) <= maxCharsPerPage {
		return content
	}

	cutoff := maxCharsPerPage
	for cutoff > 0 && content[cutoff] != ' ' {
		cutoff--
	}
	if cutoff == 0 {
		cutoff = maxCharsPerPage
	}
	return strings.TrimSpace(content[:cutoff]) + "..."
}
