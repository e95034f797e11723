// Package history composes the message list replayed to the model and
// enforces the maximum-length bound on conversation history.
package history

import (
	"fmt"

	"github.com/patternworks/tess/internal/domain"
)

// Delivery selects how mode instructions reach the model. A single
// deployment uses exactly one delivery; the two are never mixed.
type Delivery int

const (
	// AsLeadingUserMessage embeds the instruction document in the first
	// user message. This is the default.
	AsLeadingUserMessage Delivery = iota
	// AsSystemMessage sends the instruction document as a system message.
	AsSystemMessage
)

// ParseDelivery maps a configuration value to a Delivery.
func ParseDelivery(s string) Delivery {
	if s == "system" {
		return AsSystemMessage
	}
	return AsLeadingUserMessage
}

const seedPreamble = "Here is critical documentation about UI Patterns 2 that you must follow:"

const seedRequest = "Please introduce yourself briefly as Tess, the UI Patterns 2 assistant."

// CriticalReminder is appended to every ordinary chat turn to keep the
// model's output compliant with the component schema. Seed and
// mode-switch turns do not carry it.
const CriticalReminder = `CRITICAL REMINDER FOR UI PATTERNS 2:
1. Use .component.yml files (not .ui_patterns.yml)
2. Access props directly: {{ prop_name }} (NEVER {{ settings.prop_name }})
3. Story files should follow the pattern: component_name.variant_name.story.yml
   - Default story should be: component_name.default.story.yml
   - Additional variants: component_name.variant_name.story.yml
4. Don't use a "variants" property - instead use props with enum values
   - Example:
     alignment:
       title: "Alignment"
       $ref: "ui-patterns://enum"
       enum:
         - default
         - vertical
       "meta:enum":
         default: "Default"
         vertical: "Vertical"
5. Slots NEVER have type definitions, only props do
   - CORRECT slots example:
     slots:
       image:
         title: Image
         description: "Card image."
   - Only props should have types (integer, string, enum, etc.)
6. In story files, image slots should be formatted like this:
   image:
     theme: image
     uri: "https://img.daisyui.com/images/stock/photo-1606107557195-0e29a4b5b4aa.webp"
     alt: Shoes
7. NEVER use static heading tags (h1, h2, etc.) in Twig templates
   - Instead, use a heading_level prop with h2 as default
   - Example in props:
     heading_level:
       title: "Heading Level"
       type: string
       default: "h2"
   - Example in Twig: <h{{ heading_level }}>{{ heading }}</h{{ heading_level }}>
8. Follow the example components exactly`

// Policy carries the history composition rules for one deployment.
type Policy struct {
	// MaxMessages bounds the replayed history. Values of 2 or less
	// disable truncation.
	MaxMessages int
	// Delivery selects how the seed instructions are encoded.
	Delivery Delivery
}

// Seed produces the initial message list for a new session: the fixed
// preamble, the mode's instruction document, and a request for a brief
// self-introduction.
func (p Policy) Seed(instructionText string) []domain.Message {
	content := fmt.Sprintf("%s\n\n%s\n\n%s", seedPreamble, instructionText, seedRequest)
	role := domain.RoleUser
	if p.Delivery == AsSystemMessage {
		role = domain.RoleSystem
	}
	return []domain.Message{{Role: role, Content: content}}
}

// AppendUserTurn appends an ordinary chat turn: the raw message plus
// the critical-reminder suffix.
func (p Policy) AppendUserTurn(history []domain.Message, raw string) []domain.Message {
	return append(history, domain.Message{
		Role:    domain.RoleUser,
		Content: raw + "\n\n" + CriticalReminder,
	})
}

// AppendAssistantTurn appends the model's reply verbatim.
func (p Policy) AppendAssistantTurn(history []domain.Message, reply string) []domain.Message {
	return append(history, domain.Message{
		Role:    domain.RoleAssistant,
		Content: reply,
	})
}

// ModeSwitchTurn appends the mode-change announcement with the new
// mode's full instruction document. No reminder suffix on this path.
func (p Policy) ModeSwitchTurn(history []domain.Message, modeName, instructionText string) []domain.Message {
	content := fmt.Sprintf("Please switch to %s mode. Here is the updated documentation to follow:\n\n%s",
		modeName, instructionText)
	return append(history, domain.Message{Role: domain.RoleUser, Content: content})
}

// Truncate bounds the history to MaxMessages by keeping the first two
// messages (the seed instructions and the model's first reply, which
// anchor the model's adherence to the rules) and the most recent
// MaxMessages-2 messages. Discarded messages are gone for good; they
// are neither replayed to the model nor retained in storage.
func (p Policy) Truncate(history []domain.Message) []domain.Message {
	if p.MaxMessages <= 2 || len(history) <= p.MaxMessages {
		return history
	}

	truncated := make([]domain.Message, 0, p.MaxMessages)
	truncated = append(truncated, history[:2]...)
	truncated = append(truncated, history[len(history)-(p.MaxMessages-2):]...)
	return truncated
}
