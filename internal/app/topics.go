package app

import "strings"

type topicSuggestion struct {
	keyword string
	related []string
}

// Ordered so matching topics always suggest in the same sequence.
var topicSuggestions = []topicSuggestion{
	{"distillation", []string{"McCabe-Thiele method", "Raoult's law", "VLE diagrams"}},
	{"reactor", []string{"CSTR design", "PFR design", "Reaction kinetics"}},
	{"heat exchanger", []string{"LMTD method", "Heat transfer coefficients", "Shell and tube design"}},
	{"safety", []string{"HAZOP analysis", "Risk assessment", "Emergency procedures"}},
	{"thermodynamics", []string{"Phase equilibria", "Gibbs free energy", "Enthalpy calculations"}},
}

const (
	suggestionsPerTopic = 2
	maxSuggestions      = 3
)

// RelatedTopics proposes follow-up study topics mentioned alongside
// the question's subject. At most two per matched topic, three total.
func RelatedTopics(question string) []string {
	q := strings.ToLower(question)
	var suggestions []string
	for _, topic := range topicSuggestions {
		if !strings.Contains(q, topic.keyword) {
			continue
		}
		take := suggestionsPerTopic
		if take > len(topic.related) {
			take = len(topic.related)
		}
		suggestions = append(suggestions, topic.related[:take]...)
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
