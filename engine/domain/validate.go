package domain

import "strings"

// ValidateQuery rejects malformed queries before the pipeline starts.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return NewValidationError("query", query, ErrEmptyQuery)
	}
	return nil
}

// ValidateDocument checks a Document before indexing. The dimension check
// only applies once an embedding is attached; dim <= 0 skips it.
func ValidateDocument(doc Document, dim int) error {
	if strings.TrimSpace(doc.Content) == "" {
		return NewValidationError("content", doc.Content, ErrEmptyContent)
	}
	if !ValidSourceTypes[doc.SourceType] {
		return NewValidationError("source_type", string(doc.SourceType), ErrUnknownSourceType)
	}
	if dim > 0 && doc.Embedding != nil && len(doc.Embedding) != dim {
		return NewValidationError("embedding", doc.SourceID, ErrBadDimension)
	}
	return nil
}
