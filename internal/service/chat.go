package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/patternworks/tess/internal/domain"
)

// SendTurn appends a user turn (with the critical-reminder suffix),
// bounds the history, invokes the model, and persists the updated
// record. Persistence happens only after a successful model response;
// a provider failure leaves the stored record exactly as it was.
func (s *Service) SendTurn(ctx context.Context, id, message string) (string, error) {
	unlock := s.lockSession(id)
	defer unlock()

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return "", err
	}

	before := len(session.Messages)
	session.Messages = s.policy.AppendUserTurn(session.Messages, message)
	session.Messages = s.policy.Truncate(session.Messages)
	if dropped := before + 1 - len(session.Messages); dropped > 0 {
		s.logger.Info("history truncated",
			zap.String("session_id", id),
			zap.Int("dropped", dropped))
	}

	reply, err := s.provider.Invoke(ctx, session.Messages)
	if err != nil {
		return "", err
	}

	session.Messages = s.policy.AppendAssistantTurn(session.Messages, reply)

	if err := s.store.Put(ctx, id, session); err != nil {
		return "", err
	}

	return reply, nil
}

// SwitchMode announces the new mode to the model with its full
// instruction document, records the reply, and updates the session's
// mode. The announcement turn carries no reminder suffix and the
// history is not truncated on this path.
func (s *Service) SwitchMode(ctx context.Context, id, mode string) (string, error) {
	unlock := s.lockSession(id)
	defer unlock()

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return "", err
	}

	instructionText, err := s.library.Load(mode)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}

	session.Mode = mode
	session.Messages = s.policy.ModeSwitchTurn(session.Messages, s.library.DisplayName(mode), instructionText)

	reply, err := s.provider.Invoke(ctx, session.Messages)
	if err != nil {
		return "", err
	}

	session.Messages = s.policy.AppendAssistantTurn(session.Messages, reply)

	if err := s.store.Put(ctx, id, session); err != nil {
		return "", err
	}

	s.logger.Info("session mode switched",
		zap.String("session_id", id),
		zap.String("mode", mode))

	return reply, nil
}
