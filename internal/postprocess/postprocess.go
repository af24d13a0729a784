package postprocess

import (
	"regexp"
	"strconv"
	"strings"

	"chemebot/internal/model"
)

// SafetyDisclaimer is appended to safety answers that do not already
// carry one of the recognized disclaimer phrases.
const SafetyDisclaimer = "Safety note: always review the relevant SDS and follow your site's safety procedures before working with hazardous materials."

const fallbackText = "I couldn't generate an answer for this question. Please try rephrasing it."

var citationExpr = regexp.MustCompile(`\[(\d+)\]`)

var disclaimerPhrases = []string{
	"safety note",
	"safety disclaimer",
	"review the relevant sds",
	"consult the sds",
}

// Process turns raw model output into an Answer: it resolves [n]
// citation markers against the results used to build this request's
// prompt, injects the safety disclaimer for safety answers, and
// guarantees non-empty text.
func Process(raw string, category model.Category, results []model.SearchResult) model.Answer {
	text := strings.TrimSpace(raw)
	if text == "" {
		text = fallbackText
	}

	if category == model.CategorySafety && !hasDisclaimer(text) {
		text = text + "\n\n" + SafetyDisclaimer
	}

	return model.Answer{
		Text:        text,
		Category:    category,
		Sources:     resolveCitations(text, results),
		WebEnhanced: len(results) > 0,
	}
}

// resolveCitations maps 1-based [n] markers onto results, dropping
// out-of-range indexes silently and keeping first-mention order.
func resolveCitations(text string, results []model.SearchResult) []model.SearchResult {
	if len(results) == 0 {
		return []model.SearchResult{}
	}

	cited := []model.SearchResult{}
	seen := make(map[int]struct{})
	for _, match := range citationExpr.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 || n > len(results) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		cited = append(cited, results[n-1])
	}
	return cited
}

func hasDisclaimer(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range disclaimerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
