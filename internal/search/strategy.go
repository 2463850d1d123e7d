package search

import (
	"strings"

	"github.com/radlens/radlens/internal/prompt"
)

const maxTermWords = 12

// DiagnosisTerms derives a single query from the most salient diagnostic
// line of the report: the Diagnostic Assessment section first, then Key
// Findings, then the first non-heading line of the raw text.
type DiagnosisTerms struct{}

func (DiagnosisTerms) Queries(report string) []string {
	sections := prompt.ExtractSections(report)

	for _, name := range []string{prompt.SectionDiagnosis, prompt.SectionKeyFindings} {
		if term := salientLine(sections[name]); term != "" {
			return []string{term + " treatment protocol"}
		}
	}
	if term := salientLine(report); term != "" {
		return []string{term}
	}
	return nil
}

// salientLine returns the first content-bearing line, stripped of markdown
// decoration and capped to a query-sized number of words.
func salientLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#*-• \t")
		line = strings.TrimSpace(strings.TrimPrefix(line, "Primary diagnosis:"))
		line = strings.ReplaceAll(line, "**", "")
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		if len(words) > maxTermWords {
			words = words[:maxTermWords]
		}
		return strings.Trim(strings.Join(words, " "), ".,;: ")
	}
	return ""
}
