package domain

import "unicode/utf8"

// SourceRef is one citation backing an answer.
type SourceRef struct {
	SourceType SourceType `json:"source_type"`
	SourceID   string     `json:"source_id"`
	Similarity float64    `json:"similarity"`
	Excerpt    string     `json:"excerpt"`
}

// Response is the structured result of one orchestrated query.
type Response struct {
	Answer             string      `json:"answer"`
	SessionID          string      `json:"session_id"`
	Sources            []SourceRef `json:"sources"`
	DocumentsRetrieved int         `json:"documents_retrieved"`
	LatencyMs          int64       `json:"latency_ms"`
	EmbeddingProvider  string      `json:"embedding_provider"`
	LLMProvider        string      `json:"llm_provider"`
}

// ExcerptLimit bounds source excerpts in responses, counted in runes so a
// cut never lands inside a multi-byte character.
const ExcerptLimit = 150

// Excerpt truncates content for a SourceRef, appending an ellipsis marker
// when the content exceeds ExcerptLimit.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:ExcerptLimit]) + "..."
}
