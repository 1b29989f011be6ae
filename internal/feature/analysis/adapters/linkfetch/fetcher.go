// Package linkfetch retrieves the readable text of reference links.
package linkfetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"imagevault_backend/internal/feature/analysis/usecase"
)

// fetchTimeout bounds a single page fetch.
const fetchTimeout = 10 * time.Second

// RestyFetcher fetches web pages and extracts their visible text.
type RestyFetcher struct {
	client *resty.Client
}

var _ usecase.LinkFetcher = (*RestyFetcher)(nil)

// NewRestyFetcher creates a fetcher with a request timeout.
func NewRestyFetcher() *RestyFetcher {
	client := resty.New().
		SetTimeout(fetchTimeout).
		SetHeader("User-Agent", "imagevault/1.0")
	return &RestyFetcher{client: client}
}

// FetchText downloads the page and strips markup, scripts and styles.
func (f *RestyFetcher) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("unexpected status %s", resp.Status())
	}
	return extractText(resp.String()), nil
}

// extractText walks the HTML tree collecting text nodes, skipping
// script and style subtrees. Malformed HTML degrades to whatever the
// tokenizer recovers.
func extractText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return page
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(sb.String())
}
