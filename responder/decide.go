// Package responder decides whether an inbound group message deserves a reply.
package responder

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// keywords are the trigger words meaning "bot", "help", "tell me", "explain",
// "what", "how" and "why".
var keywords = []string{"бот", "помоги", "расскажи", "объясни", "что", "как", "почему"}

// ShouldRespond reports whether msg is addressed to the bot. botUsername may be
// empty when the identity lookup failed, in which case only the text rules apply.
func ShouldRespond(msg *tele.Message, botUsername string) bool {
	if msg == nil {
		return false
	}

	if isReplyTo(msg, botUsername) || mentions(msg, botUsername) {
		return true
	}

	text := strings.ToLower(Text(msg))
	if strings.Contains(text, "?") {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Text returns the message text, falling back to the caption.
func Text(msg *tele.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

func isReplyTo(msg *tele.Message, username string) bool {
	if username == "" || msg.ReplyTo == nil || msg.ReplyTo.Sender == nil {
		return false
	}
	return msg.ReplyTo.Sender.Username == username
}

func mentions(msg *tele.Message, username string) bool {
	if username == "" {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type != tele.EntityMention || e.User == nil {
			continue
		}
		if e.User.Username == username {
			return true
		}
	}
	return false
}
