package upstream

import "fmt"

// AuthenticationError maps an upstream 401: the API key was rejected.
type AuthenticationError struct {
	Op string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: invalid API key", e.Op)
}

// AuthorizationError maps an upstream 403: the key lacks permission.
type AuthorizationError struct {
	Op string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: authorization failed: insufficient permissions", e.Op)
}

// NotFoundError maps an upstream 404. Target names what was missing
// ("base" or "conversation"), decided by call site.
type NotFoundError struct {
	Op     string
	Target string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q not found", e.Op, e.Target, e.ID)
}

// MissingIdentifierError reports a create-conversation response carrying no
// conversation id in any of its known locations.
type MissingIdentifierError struct {
	Op string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("%s: missing conversation id in API response", e.Op)
}

// MalformedResponseError reports a response body that is not valid JSON.
type MalformedResponseError struct {
	Op      string
	RawText string
}

func (e *MalformedResponseError) Error() string {
	raw := e.RawText
	if len(raw) > 100 {
		raw = raw[:100] + "..."
	}
	return fmt.Sprintf("%s: invalid JSON response: %s", e.Op, raw)
}

// APIError covers every other non-2xx upstream status.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error (status %d): %s", e.Op, e.Status, e.Body)
}
