package game

import (
	"strings"
	"time"
	"unicode"

	"github.com/gridlock-games/bomberman-server/internal/config"
)

// ChatRing is an append-only, head-trimmed, bounded chat log.
type ChatRing struct {
	messages []ChatMessage
	cap      int
}

// NewChatRing builds a ring bounded at config.MaxChatMessages.
func NewChatRing() *ChatRing {
	return &ChatRing{cap: config.MaxChatMessages}
}

// sanitize truncates to MaxMessageLength runes and strips control bytes.
func sanitize(text string) string {
	var b strings.Builder
	n := 0
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		if n >= config.MaxMessageLength {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Append adds a message, trimming the head if the ring is over capacity.
// Empty/whitespace-only text is dropped.
func (r *ChatRing) Append(senderID int, text string, isSystem, isSpectator bool) {
	clean := sanitize(text)
	if strings.TrimSpace(clean) == "" {
		return
	}
	r.messages = append(r.messages, ChatMessage{
		SenderID:    senderID,
		Text:        clean,
		Timestamp:   time.Now(),
		IsSystem:    isSystem,
		IsSpectator: isSpectator,
	})
	if len(r.messages) > r.cap {
		r.messages = r.messages[len(r.messages)-r.cap:]
	}
}

// AppendSystem is a convenience wrapper for a system-authored message.
func (r *ChatRing) AppendSystem(text string) {
	r.Append(SystemSenderID, text, true, false)
}

// Messages returns the current ordered log.
func (r *ChatRing) Messages() []ChatMessage {
	return r.messages
}
