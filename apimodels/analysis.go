// Package apimodels holds the JSON types returned by the HTTP API.
package apimodels

// AnalysisResponse is the full diagnostic report for one uploaded image.
// It exists only for the duration of the request; nothing is persisted.
type AnalysisResponse struct {
	// Report is the model's raw text, unchanged.
	Report string `json:"report"`

	// Sections is the best-effort split of the report into the five named
	// sections, in canonical order. Sections the model omitted are absent.
	Sections []Section `json:"sections,omitempty"`

	// References hold supporting evidence in search-result order.
	References []Reference `json:"references,omitempty"`

	// Degraded is set when no live references could be retrieved. The report
	// text above is still complete.
	Degraded       bool   `json:"degraded,omitempty"`
	DegradedReason string `json:"degradedReason,omitempty"`

	Metadata AnalysisMetadata `json:"metadata"`
}

type Section struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

type Reference struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

type AnalysisMetadata struct {
	// Duration is the wall-clock time of the whole pipeline.
	Duration string `json:"duration"`

	Provider string `json:"provider"`
	Model    string `json:"model"`

	TokensUsed int64 `json:"tokensUsed"`

	// Attempts counts model calls made, including retries.
	Attempts int `json:"attempts"`

	PromptVersion string `json:"promptVersion"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
