// Package chat defines the Google Chat webhook event and reply shapes the
// bridge exchanges with the platform.
package chat

import (
	"encoding/json"
	"sort"
	"strings"
)

// Event type constants as delivered by the Google Chat webhook.
const (
	EventAddedToSpace     = "ADDED_TO_SPACE"
	EventRemovedFromSpace = "REMOVED_FROM_SPACE"
	EventMessage          = "MESSAGE"
	EventCardClicked      = "CARD_CLICKED"

	SpaceTypeDM = "DM"

	AnnotationUserMention = "USER_MENTION"
	MentionTypeBot        = "BOT"
)

// Event is one inbound webhook event.
type Event struct {
	Type    string   `json:"type"`
	User    User     `json:"user"`
	Space   Space    `json:"space"`
	Message *Message `json:"message,omitempty"`
	Action  *Action  `json:"action,omitempty"`
}

// User identifies the sender of an event.
type User struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Space identifies the conversation channel an event originated in.
type Space struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsDM reports whether the space is a direct 1:1 channel.
func (s Space) IsDM() bool { return s.Type == SpaceTypeDM }

// Message carries the text payload of a MESSAGE event.
type Message struct {
	Text         string        `json:"text"`
	Annotations  []Annotation  `json:"annotations,omitempty"`
	SlashCommand *SlashCommand `json:"slashCommand,omitempty"`
	ArgumentText string        `json:"argumentText,omitempty"`
	Thread       *Thread       `json:"thread,omitempty"`
}

// Thread names the message thread, when the space is threaded.
type Thread struct {
	Name string `json:"name"`
}

// Annotation marks a span of the message text, typically a user mention.
type Annotation struct {
	Type        string       `json:"type"`
	StartIndex  int          `json:"startIndex"`
	Length      int          `json:"length"`
	UserMention *UserMention `json:"userMention,omitempty"`
}

// UserMention is the payload of a USER_MENTION annotation.
type UserMention struct {
	User User   `json:"user"`
	Type string `json:"type"`
}

// SlashCommand identifies an invoked slash command by its registered id.
type SlashCommand struct {
	CommandID string `json:"commandId"`
}

// UnmarshalJSON accepts the command id as either a JSON string or number;
// the platform has sent both over time.
func (s *SlashCommand) UnmarshalJSON(data []byte) error {
	var v struct {
		CommandID json.RawMessage `json:"commandId"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	id := strings.Trim(string(v.CommandID), `"`)
	s.CommandID = strings.TrimSpace(id)
	return nil
}

// Action is the payload of a CARD_CLICKED event.
type Action struct {
	ActionMethodName string      `json:"actionMethodName"`
	Parameters       []Parameter `json:"parameters,omitempty"`
}

// Parameter is one key/value pair attached to a card action.
type Parameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Parameter returns the value for a key, or empty when absent.
func (a *Action) Parameter(key string) string {
	for _, p := range a.Parameters {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// MentionsBot reports whether any annotation is a bot mention.
func (m *Message) MentionsBot() bool {
	for _, a := range m.Annotations {
		if a.Type == AnnotationUserMention && a.UserMention != nil && a.UserMention.Type == MentionTypeBot {
			return true
		}
	}
	return false
}

// StripMentions removes every mention annotation's span from the message
// text. Annotation offsets index the original text, so spans are removed
// back to front to keep earlier offsets valid. A message without
// annotations passes through untouched.
func (m *Message) StripMentions() string {
	if len(m.Annotations) == 0 {
		return m.Text
	}

	mentions := make([]Annotation, 0, len(m.Annotations))
	for _, a := range m.Annotations {
		if a.Type == AnnotationUserMention && a.Length > 0 {
			mentions = append(mentions, a)
		}
	}
	if len(mentions) == 0 {
		return m.Text
	}
	sort.Slice(mentions, func(i, j int) bool {
		return mentions[i].StartIndex > mentions[j].StartIndex
	})

	runes := []rune(m.Text)
	for _, a := range mentions {
		start, end := a.StartIndex, a.StartIndex+a.Length
		if start < 0 || start >= len(runes) {
			continue
		}
		if end > len(runes) {
			end = len(runes)
		}
		runes = append(runes[:start], runes[end:]...)
	}
	return strings.TrimSpace(string(runes))
}
