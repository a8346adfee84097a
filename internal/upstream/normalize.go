package upstream

import "encoding/json"

// FallbackReply is returned when no known shape yields a reply text.
const FallbackReply = "Received response in an unexpected format"

// Reply is the normalized outcome of one upstream exchange: a single
// display string plus the raw payload retained for diagnostics.
type Reply struct {
	Text string
	Raw  json.RawMessage
}

// assistantTurn is the subset of an upstream turn the normalizer reads.
type assistantTurn struct {
	Content string `json:"content"`
	Prompt  string `json:"prompt"`
}

// Normalize extracts a single human-readable reply from an upstream
// response of unknown shape. Known shapes: a two-element array whose second
// element is the assistant turn (the first echoes the user), a single
// object with a content field (possibly holding JSON-encoded text with a
// prompt inside), and a single object with a direct prompt field. The same
// path handles every call site so new callers cannot fork the parsing.
func Normalize(raw json.RawMessage) Reply {
	turn := raw

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err == nil && len(elements) >= 2 {
		turn = elements[1]
	}

	var at assistantTurn
	if err := json.Unmarshal(turn, &at); err != nil {
		return Reply{Text: FallbackReply, Raw: raw}
	}

	if at.Content != "" {
		// The content field often holds a JSON-encoded object whose prompt
		// field carries the actual answer. Anything unparseable is shown
		// verbatim.
		var inner struct {
			Prompt string `json:"prompt"`
		}
		if err := json.Unmarshal([]byte(at.Content), &inner); err == nil && inner.Prompt != "" {
			return Reply{Text: inner.Prompt, Raw: raw}
		}
		return Reply{Text: at.Content, Raw: raw}
	}

	if at.Prompt != "" {
		return Reply{Text: at.Prompt, Raw: raw}
	}

	return Reply{Text: FallbackReply, Raw: raw}
}
