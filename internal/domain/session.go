// Package domain defines the core domain models for the Tess backend.
package domain

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single turn in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session represents a persisted multi-turn conversation.
// Timestamps are unix milliseconds, matching the wire format.
type Session struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  int64     `json:"createdAt"`
	Mode       string    `json:"mode"`
	Messages   []Message `json:"messages"`
	ImportedAt int64     `json:"importedAt,omitempty"`
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CreatedAt    int64  `json:"createdAt"`
	MessageCount int    `json:"messageCount"`
	Preview      string `json:"preview"`
	Mode         string `json:"mode"`
}

// previewLength is how much of the first real user message the
// session list shows.
const previewLength = 60

// Summarize builds the listing view of a session. The preview comes from
// messages[2], the first user message after the seed exchange.
func (s *Session) Summarize() SessionSummary {
	preview := "New conversation"
	if len(s.Messages) > 2 {
		content := s.Messages[2].Content
		if len(content) > previewLength {
			content = content[:previewLength]
		}
		preview = content + "..."
	}

	title := s.Title
	if title == "" {
		title = "Untitled Conversation"
	}

	mode := s.Mode
	if mode == "" {
		mode = "basic"
	}

	return SessionSummary{
		ID:           s.ID,
		Title:        title,
		CreatedAt:    s.CreatedAt,
		MessageCount: len(s.Messages),
		Preview:      preview,
		Mode:         mode,
	}
}
