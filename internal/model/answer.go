package model

// Answer is the post-processed result of one question/answer cycle.
// Sources is always a subset of the search results used to build the
// prompt for the same request.
type Answer struct {
	Text          string         `json:"text"`
	Category      Category       `json:"category"`
	Sources       []SearchResult `json:"sources"`
	RelatedTopics []string       `json:"related_topics,omitempty"`
	WebEnhanced   bool           `json:"web_enhanced"`
	ProcessingMS  int64          `json:"processing_ms"`
}
