package model

// SearchResult is one web hit used to ground an answer. Relevance is
// derived per request by the retriever's scorer and never persisted.
type SearchResult struct {
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	URL       string  `json:"url"`
	Source    string  `json:"source,omitempty"`
	Relevance float64 `json:"-"`
}
