package history

import (
	"fmt"
	"strings"
	"testing"

	"github.com/patternworks/tess/internal/domain"
)

func TestSeedLeadingUserMessage(t *testing.T) {
	p := Policy{MaxMessages: 50, Delivery: AsLeadingUserMessage}

	messages := p.Seed("the rules")
	if len(messages) != 1 {
		t.Fatalf("expected 1 seed message, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleUser {
		t.Fatalf("expected user role, got %q", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "the rules") {
		t.Fatalf("seed message missing instruction text: %q", messages[0].Content)
	}
	if !strings.Contains(messages[0].Content, "introduce yourself") {
		t.Fatalf("seed message missing introduction request: %q", messages[0].Content)
	}
}

func TestSeedSystemMessage(t *testing.T) {
	p := Policy{MaxMessages: 50, Delivery: AsSystemMessage}

	messages := p.Seed("the rules")
	if messages[0].Role != domain.RoleSystem {
		t.Fatalf("expected system role, got %q", messages[0].Role)
	}
}

func TestParseDelivery(t *testing.T) {
	if ParseDelivery("system") != AsSystemMessage {
		t.Fatal("expected system delivery")
	}
	if ParseDelivery("user") != AsLeadingUserMessage {
		t.Fatal("expected user delivery")
	}
	if ParseDelivery("") != AsLeadingUserMessage {
		t.Fatal("expected user delivery as default")
	}
}

func TestAppendUserTurnCarriesReminder(t *testing.T) {
	p := Policy{MaxMessages: 50}

	messages := p.AppendUserTurn(nil, "hello")
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleUser {
		t.Fatalf("expected user role, got %q", messages[0].Role)
	}
	if !strings.HasPrefix(messages[0].Content, "hello\n\n") {
		t.Fatalf("raw message not preserved: %q", messages[0].Content)
	}
	if !strings.HasSuffix(messages[0].Content, CriticalReminder) {
		t.Fatalf("reminder suffix missing: %q", messages[0].Content)
	}
}

func TestAppendAssistantTurnVerbatim(t *testing.T) {
	p := Policy{MaxMessages: 50}

	messages := p.AppendAssistantTurn(nil, "a reply")
	if messages[0].Role != domain.RoleAssistant || messages[0].Content != "a reply" {
		t.Fatalf("unexpected message: %+v", messages[0])
	}
}

func TestModeSwitchTurnHasNoReminder(t *testing.T) {
	p := Policy{MaxMessages: 50}

	messages := p.ModeSwitchTurn(nil, "Backend Integration", "backend rules")
	if messages[0].Role != domain.RoleUser {
		t.Fatalf("expected user role, got %q", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "Please switch to Backend Integration mode") {
		t.Fatalf("announcement missing: %q", messages[0].Content)
	}
	if !strings.Contains(messages[0].Content, "backend rules") {
		t.Fatalf("instruction text missing: %q", messages[0].Content)
	}
	if strings.Contains(messages[0].Content, "CRITICAL REMINDER") {
		t.Fatal("mode-switch turn must not carry the reminder suffix")
	}
}

func buildHistory(n int) []domain.Message {
	messages := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		messages = append(messages, domain.Message{Role: role, Content: fmt.Sprintf("msg-%d", i)})
	}
	return messages
}

func TestTruncateKeepsAnchorAndRecent(t *testing.T) {
	p := Policy{MaxMessages: 6}
	h := buildHistory(12)

	out := p.Truncate(h)
	if len(out) != 6 {
		t.Fatalf("expected length 6, got %d", len(out))
	}
	if out[0].Content != "msg-0" || out[1].Content != "msg-1" {
		t.Fatalf("first two messages not preserved: %v %v", out[0], out[1])
	}
	for i, want := range []string{"msg-8", "msg-9", "msg-10", "msg-11"} {
		if out[2+i].Content != want {
			t.Fatalf("expected %s at index %d, got %s", want, 2+i, out[2+i].Content)
		}
	}
}

func TestTruncateNoopWithinBound(t *testing.T) {
	p := Policy{MaxMessages: 6}
	h := buildHistory(6)

	out := p.Truncate(h)
	if len(out) != 6 {
		t.Fatalf("expected untouched history, got length %d", len(out))
	}
}

func TestTruncateDisabledForDegenerateBound(t *testing.T) {
	p := Policy{MaxMessages: 2}
	h := buildHistory(10)

	out := p.Truncate(h)
	if len(out) != 10 {
		t.Fatalf("expected truncation disabled, got length %d", len(out))
	}
}
