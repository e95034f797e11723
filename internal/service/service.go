// Package service orchestrates session lifecycle, chat turns, and mode
// switching over the store, instruction library, and model provider.
package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/patternworks/tess/internal/config"
	"github.com/patternworks/tess/internal/history"
	"github.com/patternworks/tess/internal/instructions"
	"github.com/patternworks/tess/internal/llm"
	"github.com/patternworks/tess/internal/store"
)

// Service composes the session store, instruction library, and model
// provider into the operations exposed to callers.
type Service struct {
	store    store.Store
	library  *instructions.Library
	provider llm.Provider
	policy   history.Policy
	config   *config.Config
	logger   *zap.Logger

	// locks serializes the read-modify-write cycle per session id, so
	// two concurrent turns on one session cannot drop each other's
	// writes.
	locks sync.Map
}

// New creates a Service.
func New(st store.Store, library *instructions.Library, provider llm.Provider, cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    st,
		library:  library,
		provider: provider,
		policy: history.Policy{
			MaxMessages: cfg.MaxMessages,
			Delivery:    history.ParseDelivery(cfg.InstructionDelivery),
		},
		config: cfg,
		logger: logger,
	}
}

// lockSession acquires the per-session mutex and returns its release.
func (s *Service) lockSession(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
