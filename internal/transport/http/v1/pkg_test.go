package v1

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/patternworks/tess/internal/config"
	"github.com/patternworks/tess/internal/domain"
	"github.com/patternworks/tess/internal/instructions"
	"github.com/patternworks/tess/internal/service"
	"github.com/patternworks/tess/internal/store"
)

// stubProvider returns a fixed reply, or fails when broken.
type stubProvider struct {
	reply  string
	broken bool
}

func (p *stubProvider) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	if p.broken {
		return "", errors.New("provider down")
	}
	return p.reply, nil
}

func newTestHandler(t *testing.T) (*Handler, *stubProvider) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range map[string]string{
		"frontend.md": "frontend rules",
		"backend.md":  "backend rules",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	cfg := &config.Config{
		DefaultMode:         "basic",
		InstructionDelivery: "user",
		MaxMessages:         50,
		MaxAgeDays:          30,
	}

	provider := &stubProvider{reply: "hi, I'm Tess"}
	library := instructions.NewLibrary(dir, "basic", nil, zap.NewNop())
	svc := service.New(store.NewMemoryStore(), library, provider, cfg, zap.NewNop())
	return NewHandler(svc), provider
}
