// Package llm provides the model provider client used for chat turns.
package llm

import (
	"context"

	"github.com/patternworks/tess/internal/domain"
)

// Provider is the black-box model interface: an ordered message list
// in, the generated reply out. Implementations may fail with network,
// auth, or rate-limit errors; callers surface those as a generic
// processing failure and never retry automatically.
type Provider interface {
	Invoke(ctx context.Context, messages []domain.Message) (string, error)
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
