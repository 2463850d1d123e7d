package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/radlens/radlens/internal/config"
)

const userAgent = "Mozilla/5.0 (compatible; radlens/1.0)"

// DuckDuckGo queries the HTML (non-JS) results endpoint and scrapes the
// result list. There is no official API; the selectors below match the
// html.duckduckgo.com markup.
type DuckDuckGo struct {
	endpoint   string
	maxResults int
	httpc      *http.Client
}

func NewDuckDuckGo(cfg *config.SearchConfig) *DuckDuckGo {
	return &DuckDuckGo{
		endpoint:   cfg.Endpoint,
		maxResults: cfg.MaxResults,
		httpc:      &http.Client{Timeout: cfg.Timeout},
	}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Reference, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var refs []Reference
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		anchor := s.Find(".result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		link := unwrapRedirect(href)
		if title == "" || link == "" {
			return true
		}
		refs = append(refs, Reference{
			Title:   title,
			URL:     link,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
		return len(refs) < d.maxResults
	})

	return refs, nil
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg=<encoded> indirection to the
// destination URL. Plain links pass through unchanged.
func unwrapRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
