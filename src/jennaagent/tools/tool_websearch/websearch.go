package tool_websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/jennaagent/toolsutil"
)

// Tool name constant
const Name = "webSearch"

const webSearchPrompt = `Searches the web and returns the content of the top results as markdown.

Usage:
- Provide a plain text search query
- At most 3 results are returned, each with its URL, title, and page content`

// At most this many results per search.
const maxResults = 3

const defaultFirecrawlURL = "https://api.firecrawl.dev/v1/search"

// WebSearchInput represents the parameters for webSearch
type WebSearchInput struct {
	Query string `json:"query" required:"true" description:"The search query"`
}

// SearchResult is one search hit
type SearchResult struct {
	URL     string `json:"url" description:"The result URL"`
	Title   string `json:"title" description:"The result title"`
	Content string `json:"content,omitempty" description:"The page content as markdown"`
}

// WebSearchOutput represents the response from webSearch
type WebSearchOutput struct {
	Query   string         `json:"query" description:"The query that was searched"`
	Results []SearchResult `json:"results" description:"The top search results"`
}

// Tool returns the webSearch tool definition using GenericTool. When apiKey
// is empty the search falls back to scraping a public search engine.
func Tool(apiKey string) (agent.Tool, error) {
	s := &searcher{
		client:       &http.Client{Timeout: 30 * time.Second},
		apiKey:       apiKey,
		firecrawlURL: defaultFirecrawlURL,
	}
	return agent.NewGenericTool(Name, webSearchPrompt, s.handle)
}

type searcher struct {
	client       *http.Client
	apiKey       string
	firecrawlURL string
}

func (s *searcher) handle(ctx context.Context, input WebSearchInput) (WebSearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return WebSearchOutput{}, fmt.Errorf("query must not be empty")
	}

	var results []SearchResult
	var err error
	if s.apiKey != "" {
		results, err = s.searchFirecrawl(ctx, input.Query)
	} else {
		results, err = s.searchFallback(ctx, input.Query)
	}
	if err != nil {
		toolsutil.GetLogger().Error("web search failed", "query", input.Query, "error", err)
		return WebSearchOutput{}, err
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	toolsutil.GetLogger().Info("web search done", "query", input.Query, "results", len(results))

	return WebSearchOutput{Query: input.Query, Results: results}, nil
}

// firecrawl v1 search wire types
type firecrawlRequest struct {
	Query         string `json:"query"`
	Limit         int    `json:"limit"`
	ScrapeOptions struct {
		Formats []string `json:"formats"`
	} `json:"scrapeOptions"`
}

type firecrawlResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		URL      string `json:"url"`
		Title    string `json:"title"`
		Markdown string `json:"markdown"`
	} `json:"data"`
	Error string `json:"error"`
}

func (s *searcher) searchFirecrawl(ctx context.Context, query string) ([]SearchResult, error) {
	reqBody := firecrawlRequest{Query: query, Limit: maxResults}
	reqBody.ScrapeOptions.Formats = []string{"markdown"}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.firecrawlURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, data)
	}

	var parsed firecrawlResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if !parsed.Success && parsed.Error != "" {
		return nil, fmt.Errorf("search failed: %s", parsed.Error)
	}

	results := make([]SearchResult, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		results = append(results, SearchResult{
			URL:     d.URL,
			Title:   d.Title,
			Content: d.Markdown,
		})
	}
	return results, nil
}

// searchFallback scrapes a public search engine results page and converts
// the top hits to markdown locally.
func (s *searcher) searchFallback(ctx context.Context, query string) ([]SearchResult, error) {
	searchURL := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", "jenna/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []SearchResult
	doc.Find(".result__a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		results = append(results, SearchResult{
			URL:   resolveRedirect(href),
			Title: strings.TrimSpace(sel.Text()),
		})
		return len(results) < maxResults
	})

	for i := range results {
		content, err := s.fetchAsMarkdown(ctx, results[i].URL)
		if err != nil {
			toolsutil.GetLogger().Warn("failed to fetch search result", "url", results[i].URL, "error", err)
			continue
		}
		results[i].Content = content
	}

	return results, nil
}

// resolveRedirect unwraps the engine's /l/?uddg= redirect URLs.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}

var whitespaceRe = regexp.MustCompile(`\n{3,}`)

func (s *searcher) fetchAsMarkdown(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "jenna/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, nav, footer").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})
	html, err := doc.Html()
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(markdown, "\n\n")), nil
}
