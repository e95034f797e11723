package llm

import (
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// EnvTessMode is the environment variable name for provider selection.
	EnvTessMode = "TESS_MODE"
	// ModeMock indicates the mock provider should be used.
	ModeMock = "MOCK"
)

// NewProvider creates a provider based on the TESS_MODE environment
// variable. TESS_MODE=MOCK selects the mock provider; anything else
// returns a real client.
func NewProvider(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) Provider {
	if os.Getenv(EnvTessMode) == ModeMock {
		logger.Info("TESS_MODE=MOCK detected, using mock provider")
		return NewMockProvider()
	}
	return NewClient(baseURL, apiKey, model, timeout)
}
