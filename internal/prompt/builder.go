package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"chemebot/internal/model"
)

const maxSnippetLen = 300

// Build assembles the single prompt blob sent to the model: system
// instructions, the category template, an indexed rendering of each
// search result, the literal question, and the citation instruction.
// The results block is omitted entirely when results is empty. Pure
// function of its inputs.
func Build(category model.Category, question string, results []model.SearchResult) string {
	var b strings.Builder

	b.WriteString(systemInstructions)
	b.WriteString("\n\n")

	if instr, ok := categoryInstructions[category]; ok {
		b.WriteString(instr)
	} else {
		b.WriteString(categoryInstructions[model.CategoryGeneral])
	}
	b.WriteString("\n\n")

	if len(results) > 0 {
		b.WriteString("Reference material from current sources:\n")
		for i, res := range results {
			fmt.Fprintf(&b, "[%d] %s - %s (%s)\n", i+1, res.Title, truncateSnippet(res.Snippet), res.URL)
		}
		b.WriteString("\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString("When you rely on a reference above, cite it by index, e.g. [1]. Answer:")

	return b.String()
}

// truncateSnippet cuts on a rune boundary so multi-byte characters
// are never split mid-sequence.
func truncateSnippet(snippet string) string {
	if len(snippet) <= maxSnippetLen {
		return snippet
	}
	cut := maxSnippetLen
	for cut > 0 && !utf8.RuneStart(snippet[cut]) {
		cut--
	}
	return snippet[:cut] + "..."
}
