package chat

import "fmt"

// Card is an opaque card payload; the rendering schema belongs to the chat
// platform and is passed through without interpretation.
type Card = map[string]any

// Reply is the outbound webhook response: either plain text or cards.
// A zero Reply means "respond with nothing", which the platform treats as
// no visible message.
type Reply struct {
	Text  string `json:"text,omitempty"`
	Cards []Card `json:"cards,omitempty"`
}

// Empty reports whether the reply carries no content.
func (r Reply) Empty() bool { return r.Text == "" && len(r.Cards) == 0 }

// Textf builds a plain-text reply.
func Textf(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}
