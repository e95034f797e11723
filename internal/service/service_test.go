package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/patternworks/tess/internal/config"
	"github.com/patternworks/tess/internal/domain"
	"github.com/patternworks/tess/internal/instructions"
	"github.com/patternworks/tess/internal/store"
)

// scriptedProvider replays canned responses and records every
// invocation's message list.
type scriptedProvider struct {
	replies []string
	err     error
	calls   [][]domain.Message
}

func (p *scriptedProvider) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	p.calls = append(p.calls, append([]domain.Message(nil), messages...))
	if p.err != nil {
		return "", p.err
	}
	if len(p.replies) == 0 {
		return "ok", nil
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultMode:         "basic",
		InstructionDelivery: "user",
		MaxMessages:         50,
		MaxAgeDays:          30,
	}
}

func newTestService(t *testing.T, cfg *config.Config) (*Service, *store.MemoryStore, *scriptedProvider) {
	t.Helper()

	dir := t.TempDir()
	docs := map[string]string{
		"frontend.md": "frontend rules",
		"backend.md":  "backend rules",
	}
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	if cfg == nil {
		cfg = testConfig()
	}
	st := store.NewMemoryStore()
	provider := &scriptedProvider{}
	library := instructions.NewLibrary(dir, cfg.DefaultMode, nil, zap.NewNop())
	svc := New(st, library, provider, cfg, zap.NewNop())
	return svc, st, provider
}
