package llm

import (
	"context"
	"strconv"
	"strings"
)

const mockFindingLimit = 200

// Mock formats the retrieved context into a structured answer without
// calling any model. It is the default strategy for development and tests.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Provider() string { return "mock" }

func (m *Mock) Generate(_ context.Context, _, userQuery, contextText string) (string, error) {
	var b strings.Builder
	b.WriteString("=== RAG Response (Mock LLM) ===\n\n")
	b.WriteString("**Query:** ")
	b.WriteString(userQuery)
	b.WriteString("\n\n")
	b.WriteString("**Based on retrieved banking data:**\n\n")

	if strings.TrimSpace(contextText) == "" {
		b.WriteString("No relevant information found in the banking knowledge base.\n")
	} else {
		for i, chunk := range strings.Split(contextText, "---\n") {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}
			b.WriteString("**Finding ")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(":** ")
			if runes := []rune(chunk); len(runes) > mockFindingLimit {
				b.WriteString(string(runes[:mockFindingLimit]))
				b.WriteString("...\n\n")
			} else {
				b.WriteString(chunk)
				b.WriteString("\n\n")
			}
		}
	}

	b.WriteString("\n_Note: This is a mock response. Configure an LLM provider (OpenAI/Ollama) for natural language answers._")
	return b.String(), nil
}
