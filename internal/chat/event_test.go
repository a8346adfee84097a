package chat

import (
	"encoding/json"
	"testing"
)

func botMention(start, length int) Annotation {
	return Annotation{
		Type:        AnnotationUserMention,
		StartIndex:  start,
		Length:      length,
		UserMention: &UserMention{Type: MentionTypeBot},
	}
}

func TestStripMentions_NoAnnotationsIsNoOp(t *testing.T) {
	m := &Message{Text: "what is X"}
	if got := m.StripMentions(); got != "what is X" {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestStripMentions_RemovesAnnotatedSpan(t *testing.T) {
	m := &Message{
		Text:        "@Bot what is X",
		Annotations: []Annotation{botMention(0, 5)},
	}
	if got := m.StripMentions(); got != "what is X" {
		t.Errorf("expected 'what is X', got %q", got)
	}
}

func TestStripMentions_MultipleMentions(t *testing.T) {
	m := &Message{
		Text: "@Bot tell @Bot a joke",
		Annotations: []Annotation{
			botMention(0, 5),
			botMention(10, 5),
		},
	}
	if got := m.StripMentions(); got != "tell a joke" {
		t.Errorf("expected 'tell a joke', got %q", got)
	}
}

func TestStripMentions_OutOfRangeAnnotation(t *testing.T) {
	m := &Message{
		Text:        "short",
		Annotations: []Annotation{botMention(99, 5)},
	}
	if got := m.StripMentions(); got != "short" {
		t.Errorf("out-of-range annotation should be ignored, got %q", got)
	}
}

func TestMentionsBot(t *testing.T) {
	m := &Message{Text: "hi"}
	if m.MentionsBot() {
		t.Error("message without annotations should not mention the bot")
	}

	m.Annotations = []Annotation{{
		Type:        AnnotationUserMention,
		UserMention: &UserMention{Type: "HUMAN"},
	}}
	if m.MentionsBot() {
		t.Error("human mention should not count as a bot mention")
	}

	m.Annotations = append(m.Annotations, botMention(0, 4))
	if !m.MentionsBot() {
		t.Error("bot mention not detected")
	}
}

func TestSlashCommand_UnmarshalStringOrNumber(t *testing.T) {
	var fromString SlashCommand
	if err := json.Unmarshal([]byte(`{"commandId":"3"}`), &fromString); err != nil {
		t.Fatalf("unmarshal string id: %v", err)
	}
	if fromString.CommandID != "3" {
		t.Errorf("expected 3, got %q", fromString.CommandID)
	}

	var fromNumber SlashCommand
	if err := json.Unmarshal([]byte(`{"commandId":3}`), &fromNumber); err != nil {
		t.Fatalf("unmarshal numeric id: %v", err)
	}
	if fromNumber.CommandID != "3" {
		t.Errorf("expected 3, got %q", fromNumber.CommandID)
	}
}

func TestEventDecoding(t *testing.T) {
	payload := `{
		"type": "MESSAGE",
		"user": {"name": "users/1", "displayName": "Ada", "email": "ada@example.com"},
		"space": {"name": "spaces/AAA", "type": "ROOM"},
		"message": {
			"text": "@Humble AI hello",
			"annotations": [{"type": "USER_MENTION", "startIndex": 0, "length": 10,
				"userMention": {"type": "BOT", "user": {"displayName": "Humble AI"}}}],
			"argumentText": " hello"
		}
	}`
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != EventMessage || ev.Space.IsDM() {
		t.Errorf("unexpected event %+v", ev)
	}
	if !ev.Message.MentionsBot() {
		t.Error("bot mention not decoded")
	}
}

func TestActionParameter(t *testing.T) {
	a := &Action{Parameters: []Parameter{{Key: "spaceId", Value: "spaces/AAA"}}}
	if a.Parameter("spaceId") != "spaces/AAA" {
		t.Error("parameter lookup failed")
	}
	if a.Parameter("missing") != "" {
		t.Error("missing parameter should be empty")
	}
}

func TestReplyEncoding(t *testing.T) {
	data, err := json.Marshal(Reply{})
	if err != nil {
		t.Fatalf("marshal empty reply: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("empty reply should encode as {}, got %s", data)
	}

	data, _ = json.Marshal(Textf("hi %s", "there"))
	if string(data) != `{"text":"hi there"}` {
		t.Errorf("unexpected text reply encoding %s", data)
	}
}
