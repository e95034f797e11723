package llm

import (
	"context"
	"fmt"

	"github.com/patternworks/tess/internal/domain"
)

// MockProvider is a canned-response Provider for development without a
// real model endpoint.
type MockProvider struct{}

// NewMockProvider creates a mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Ensure MockProvider implements Provider.
var _ Provider = (*MockProvider)(nil)

// Invoke echoes the last user message back as a mock reply.
func (m *MockProvider) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			lastUser = messages[i].Content
			break
		}
	}

	if lastUser == "" {
		return "[MOCK] This is a mock response from the provider.", nil
	}

	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(lastUser, 100)), nil
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
