package search

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageExtractor pulls readable text from a result URL when the
// provider snippet alone is too thin to ground the prompt.
type PageExtractor struct {
	userAgent  string
	httpClient *http.Client
}

func NewPageExtractor(userAgent string, timeout time.Duration) *PageExtractor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PageExtractor{
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var whitespaceExpr = regexp.MustCompile(`\s+`)

func (e *PageExtractor) FetchPageText(ctx context.Context, pageURL string, maxChars int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request failed: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page failed: %w", err)
	}

	doc.Find("script, style, nav, footer, header").Remove()
	text := whitespaceExpr.ReplaceAllString(strings.TrimSpace(doc.Text()), " ")

	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars] + "..."
	}
	return text, nil
}
