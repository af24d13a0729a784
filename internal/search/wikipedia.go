package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chemebot/internal/model"
)

const defaultWikipediaBaseURL = "https://en.wikipedia.org/api/rest_v1"

// WikipediaProvider looks up page summaries through the Wikipedia REST
// API. It tries a couple of title spellings derived from the query and
// stops at the first page that resolves.
type WikipediaProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewWikipediaProvider(baseURL, userAgent string, timeout time.Duration) *WikipediaProvider {
	if baseURL == "" {
		baseURL = defaultWikipediaBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WikipediaProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (p *WikipediaProvider) Search(ctx context.Context, query string, max int) ([]model.SearchResult, error) {
	base := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(query), domainSuffix))
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, nil
	}

	titles := candidateTitles(base)
	var lastErr error
	for _, title := range titles {
		summary, err := p.fetchSummary(ctx, title)
		if err != nil {
			lastErr = err
			continue
		}
		if summary == nil {
			continue
		}
		result := model.SearchResult{
			Title:   summary.Title,
			Snippet: summary.Extract,
			URL:     summary.ContentURLs.Desktop.Page,
			Source:  "wikipedia",
		}
		if result.URL == "" {
			result.URL = "https://en.wikipedia.org/wiki/" + url.PathEscape(title)
		}
		return []model.SearchResult{result}, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// fetchSummary returns nil without error for a missing page; only
// transport and server failures are errors.
func (p *WikipediaProvider) fetchSummary(ctx context.Context, title string) (*wikipediaSummary, error) {
	endpoint := p.baseURL + "/page/summary/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build wikipedia request failed: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read wikipedia response failed: %w", err)
	}
	var summary wikipediaSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("parse wikipedia json failed: %w", err)
	}
	if summary.Title == "" && summary.Extract == "" {
		return nil, nil
	}
	return &summary, nil
}

func candidateTitles(query string) []string {
	underscored := strings.ReplaceAll(query, " ", "_")
	return []string{
		underscored,
		"Chemical_" + underscored,
	}
}
