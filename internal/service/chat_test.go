package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/patternworks/tess/internal/domain"
	"github.com/patternworks/tess/internal/history"
)

func TestSendTurnAppendsUserAndReply(t *testing.T) {
	ctx := context.Background()
	svc, _, provider := newTestService(t, nil)
	provider.replies = []string{"intro", "the answer"}

	session, err := svc.CreateSession(ctx, "basic")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	reply, err := svc.SendTurn(ctx, session.ID, "hello")
	if err != nil {
		t.Fatalf("SendTurn failed: %v", err)
	}
	if reply != "the answer" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	stored, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(stored.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(stored.Messages))
	}

	userTurn := stored.Messages[2]
	if userTurn.Role != domain.RoleUser {
		t.Fatalf("expected user turn at index 2, got %q", userTurn.Role)
	}
	if !strings.Contains(userTurn.Content, "hello") {
		t.Fatalf("raw message missing: %q", userTurn.Content)
	}
	if !strings.HasSuffix(userTurn.Content, history.CriticalReminder) {
		t.Fatal("user turn missing the critical-reminder suffix")
	}
	if stored.Messages[3].Content != "the answer" {
		t.Fatalf("assistant turn not recorded: %q", stored.Messages[3].Content)
	}
}

func TestSendTurnNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.SendTurn(context.Background(), "missing", "hello")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendTurnProviderFailureLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, provider := newTestService(t, nil)

	session, err := svc.CreateSession(ctx, "basic")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	provider.err = errors.New("provider down")
	if _, err := svc.SendTurn(ctx, session.ID, "hello"); err == nil {
		t.Fatal("expected provider error")
	}

	stored, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(stored.Messages) != 2 {
		t.Fatalf("failed turn must not be persisted, got %d messages", len(stored.Messages))
	}
}

func TestSendTurnTruncatesHistory(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.MaxMessages = 6
	svc, _, provider := newTestService(t, cfg)

	session, err := svc.CreateSession(ctx, "basic")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	seed := append([]domain.Message(nil), session.Messages...)

	for i := 0; i < 5; i++ {
		if _, err := svc.SendTurn(ctx, session.ID, "turn"); err != nil {
			t.Fatalf("SendTurn %d failed: %v", i, err)
		}
	}

	stored, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	// Truncation runs before the provider call, so the stored record is
	// the bound plus the reply appended afterwards.
	if len(stored.Messages) != 7 {
		t.Fatalf("expected 7 stored messages, got %d", len(stored.Messages))
	}
	if stored.Messages[0] != seed[0] || stored.Messages[1] != seed[1] {
		t.Fatal("truncation must preserve the original seed pair")
	}

	// The model itself never sees more than the bound.
	last := provider.calls[len(provider.calls)-1]
	if len(last) != 6 {
		t.Fatalf("expected 6 messages replayed to the model, got %d", len(last))
	}
}

func TestSwitchMode(t *testing.T) {
	ctx := context.Background()
	svc, _, provider := newTestService(t, nil)
	provider.replies = []string{"intro", "switched"}

	session, err := svc.CreateSession(ctx, "basic")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	reply, err := svc.SwitchMode(ctx, session.ID, "backend")
	if err != nil {
		t.Fatalf("SwitchMode failed: %v", err)
	}
	if reply != "switched" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	stored, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if stored.Mode != "backend" {
		t.Fatalf("mode not updated: %q", stored.Mode)
	}
	if len(stored.Messages) != 4 {
		t.Fatalf("expected 4 messages after switch, got %d", len(stored.Messages))
	}

	announcement := stored.Messages[2]
	if !strings.Contains(announcement.Content, "Please switch to Backend Integration mode") {
		t.Fatalf("announcement missing: %q", announcement.Content)
	}
	if !strings.Contains(announcement.Content, "backend rules") {
		t.Fatalf("instruction document missing: %q", announcement.Content)
	}
	if strings.Contains(announcement.Content, "CRITICAL REMINDER") {
		t.Fatal("mode-switch turn must not carry the reminder suffix")
	}
}

func TestSwitchModeNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.SwitchMode(context.Background(), "missing", "backend")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSwitchModeProviderFailureLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, provider := newTestService(t, nil)

	session, err := svc.CreateSession(ctx, "basic")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	provider.err = errors.New("provider down")
	if _, err := svc.SwitchMode(ctx, session.ID, "backend"); err == nil {
		t.Fatal("expected provider error")
	}

	stored, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if stored.Mode != "basic" || len(stored.Messages) != 2 {
		t.Fatalf("failed switch must not be persisted: mode=%q messages=%d", stored.Mode, len(stored.Messages))
	}
}
