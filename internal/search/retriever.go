package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"chemebot/internal/model"
)

// ErrRetrieval marks provider/network failures. Callers treat it as
// "no search augmentation available" and answer without sources.
var ErrRetrieval = errors.New("search retrieval failed")

const (
	domainSuffix      = "chemical engineering"
	minSnippetLen     = 80
	maxEnrichedChars  = 1000
	defaultMaxResults = 5
)

// Provider fetches raw candidates from one search backend.
type Provider interface {
	Search(ctx context.Context, query string, max int) ([]model.SearchResult, error)
}

// Scorer rates a candidate against the query terms. Zero means no
// overlap at all; anything positive is kept when filtering.
type Scorer func(r model.SearchResult, queryTerms []string) float64

type Retriever struct {
	providers []Provider
	scorer    Scorer
	extractor *PageExtractor
	timeout   time.Duration
	logger    *zap.Logger
}

func NewRetriever(providers []Provider, scorer Scorer, extractor *PageExtractor, timeout time.Duration, logger *zap.Logger) *Retriever {
	if scorer == nil {
		scorer = DefaultScorer
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		providers: providers,
		scorer:    scorer,
		extractor: extractor,
		timeout:   timeout,
		logger:    logger,
	}
}

// Search queries every provider with the domain-augmented query,
// deduplicates by normalized URL, and filters down to max results.
// Zero hits is a valid outcome and returns an empty slice; only a
// total provider failure returns ErrRetrieval.
func (r *Retriever) Search(ctx context.Context, query string, max int) ([]model.SearchResult, error) {
	if max <= 0 {
		max = defaultMaxResults
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	enhanced := strings.TrimSpace(query)
	if !strings.Contains(strings.ToLower(enhanced), domainSuffix) {
		enhanced = enhanced + " " + domainSuffix
	}

	var (
		candidates []model.SearchResult
		failures   int
	)
	for _, p := range r.providers {
		hits, err := p.Search(searchCtx, enhanced, max)
		if err != nil {
			failures++
			r.logger.Warn("search provider failed", zap.Error(err))
			continue
		}
		candidates = append(candidates, hits...)
	}
	if failures == len(r.providers) && len(r.providers) > 0 {
		return nil, fmt.Errorf("%w: all %d providers failed", ErrRetrieval, failures)
	}

	results := dedupe(candidates)

	terms := queryTerms(query)
	for i := range results {
		results[i].Relevance = r.scorer(results[i], terms)
	}
	if len(results) > max {
		results = filterRelevant(results, max)
	}
	if len(results) > max {
		results = results[:max]
	}

	r.enrichLeadSnippet(searchCtx, results)
	return results, nil
}

// enrichLeadSnippet fetches page text for the top result when the
// provider snippet is too short to ground the prompt. Best effort.
func (r *Retriever) enrichLeadSnippet(ctx context.Context, results []model.SearchResult) {
	if r.extractor == nil || len(results) == 0 {
		return
	}
	if len(results[0].Snippet) >= minSnippetLen {
		return
	}
	text, err := r.extractor.FetchPageText(ctx, results[0].URL, maxEnrichedChars)
	if err != nil {
		r.logger.Debug("page extraction skipped", zap.String("url", results[0].URL), zap.Error(err))
		return
	}
	if text != "" {
		results[0].Snippet = text
	}
}

// dedupe keeps the first occurrence of each normalized URL, preserving
// provider order.
func dedupe(results []model.SearchResult) []model.SearchResult {
	seen := make(map[string]struct{}, len(results))
	out := make([]model.SearchResult, 0, len(results))
	for _, res := range results {
		if strings.TrimSpace(res.URL) == "" {
			continue
		}
		key := NormalizeURL(res.URL)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, res)
	}
	return out
}

// filterRelevant drops zero-overlap candidates, keeping provider
// order. Filtering is best effort: if it would discard everything, the
// unfiltered head is kept instead so relevant ties are never lost.
func filterRelevant(results []model.SearchResult, max int) []model.SearchResult {
	kept := make([]model.SearchResult, 0, max)
	for _, res := range results {
		if res.Relevance > 0 {
			kept = append(kept, res)
		}
		if len(kept) == max {
			return kept
		}
	}
	if len(kept) == 0 {
		return results[:max]
	}
	return kept
}

// DefaultScorer counts query-term overlap in title and snippet, with a
// small source-priority bonus so authoritative domains win ties.
func DefaultScorer(r model.SearchResult, queryTerms []string) float64 {
	haystack := strings.ToLower(r.Title + " " + r.Snippet)
	var overlap float64
	for _, term := range queryTerms {
		if strings.Contains(haystack, term) {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	return overlap + float64(SourcePriority(r.URL))/100
}

// SourcePriority ranks hosts the way domain practitioners trust them.
func SourcePriority(rawURL string) int {
	u := strings.ToLower(rawURL)
	switch {
	case strings.Contains(u, ".edu"):
		return 10
	case strings.Contains(u, ".gov"):
		return 9
	case strings.Contains(u, "aiche.org"), strings.Contains(u, "acs.org"), strings.Contains(u, "asme.org"):
		return 8
	case strings.Contains(u, "wikipedia"):
		return 6
	default:
		return 5
	}
}

var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {},
	"utm_term": {}, "utm_content": {}, "fbclid": {}, "gclid": {}, "ref": {},
}

// NormalizeURL lowercases the host, strips tracking parameters and the
// fragment, and trims a trailing slash so duplicates collapse.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if _, ok := trackingParams[strings.ToLower(param)]; ok {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,?!:;\"'()")
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}
