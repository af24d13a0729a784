package classifier

import (
	"regexp"
	"strings"

	"chemebot/internal/model"
)

// rule pairs a predicate with the category it selects. Rules are
// evaluated in declaration order; safety always wins so that the
// downstream disclaimer injection can never be masked by a
// co-occurring calculation or design phrasing.
type rule struct {
	match    func(q string) bool
	category model.Category
}

var numberExpr = regexp.MustCompile(`\d`)

var safetyWords = []string{
	"safe", "hazard", "danger", "toxic", "risk", "accident", "emergency",
	"ppe", "protective", "flammable", "explosive", "corrosive", "exposure",
	"leak", "spill", "msds", "sds", "osha", "niosh", "hazop", "ventilation",
}

var calculationWords = []string{
	"calculate", "compute", "determine", "solve", "find", "how much",
	"how many", "what is the",
}

var designWords = []string{
	"design", "size", "select", "choose", "optimize", "specify", "which type",
}

var theoryWords = []string{
	"explain", "what is", "what are", "how does", "why", "difference",
	"compare", "describe",
}

var rules = []rule{
	{matchAny(safetyWords), model.CategorySafety},
	{func(q string) bool { return matchAny(calculationWords)(q) || numberExpr.MatchString(q) }, model.CategoryCalculation},
	{matchAny(designWords), model.CategoryDesign},
	{matchAny(theoryWords), model.CategoryTheory},
}

// Classify maps a raw question to exactly one category. It is pure and
// total: unmatched questions fall back to general.
func Classify(question string) model.Category {
	q := strings.ToLower(question)
	for _, r := range rules {
		if r.match(q) {
			return r.category
		}
	}
	return model.CategoryGeneral
}

func matchAny(words []string) func(q string) bool {
	return func(q string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}
