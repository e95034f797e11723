package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patternworks/tess/internal/domain"
)

// CreateSession starts a new conversation in the given mode (or the
// default when empty), invokes the model for the introductory reply,
// and persists the resulting record. The stored session always holds
// at least the seed message and the model's first reply.
func (s *Service) CreateSession(ctx context.Context, mode string) (*domain.Session, error) {
	if mode == "" {
		mode = s.config.DefaultMode
	}

	instructionText, err := s.library.Load(mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}

	messages := s.policy.Seed(instructionText)

	reply, err := s.provider.Invoke(ctx, messages)
	if err != nil {
		return nil, err
	}
	messages = s.policy.AppendAssistantTurn(messages, reply)

	session := &domain.Session{
		ID:        uuid.New().String(),
		Title:     "New Conversation",
		CreatedAt: time.Now().UnixMilli(),
		Mode:      mode,
		Messages:  messages,
	}

	if err := s.store.Put(ctx, session.ID, session); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		zap.String("session_id", session.ID),
		zap.String("mode", mode))

	return session, nil
}

// GetSession returns the full session record.
func (s *Service) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// RenameSession sets the session title. Renaming to the current title
// is a no-op, not an error.
func (s *Service) RenameSession(ctx context.Context, id, title string) error {
	unlock := s.lockSession(id)
	defer unlock()

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}

	session.Title = title
	return s.store.Put(ctx, id, session)
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	existed, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrNotFound
	}
	return nil
}

// ListSessions enumerates all sessions, most recent first.
func (s *Service) ListSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})

	return summaries, nil
}

// ExportSession returns the full record for download.
func (s *Service) ExportSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.GetSession(ctx, id)
}

// ImportSession stores a previously exported record under a fresh id,
// stamping it with an import time. Only minimal presence validation is
// performed: messages and createdAt must be set.
func (s *Service) ImportSession(ctx context.Context, record *domain.Session) (string, error) {
	if record == nil || len(record.Messages) == 0 || record.CreatedAt == 0 {
		return "", domain.ErrInvalidInput
	}

	record.ID = uuid.New().String()
	record.ImportedAt = time.Now().UnixMilli()

	if err := s.store.Put(ctx, record.ID, record); err != nil {
		return "", err
	}

	s.logger.Info("session imported", zap.String("session_id", record.ID))
	return record.ID, nil
}

// ClearAll deletes every session and returns the number removed.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("all sessions cleared", zap.Int("deleted", n))
	return n, nil
}
