// Package upstream implements the client for the Humble AI assistant API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Context is a named retrieval sub-scope within a knowledge base.
type Context struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Label returns the human-facing name of a context.
func (c Context) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Client talks to the Humble AI assistant REST API. All requests carry
// bearer auth with the per-space API key, so the client itself is key-free
// and safe to share across spaces.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://platform.thehumbleai.com/api/assistant"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateConversation opens a new upstream conversation against a base and
// returns its id. The id may appear at .id, .chatId or .data.id depending
// on the upstream version; the priority order is part of the compatibility
// contract and must not be simplified.
func (c *Client) CreateConversation(ctx context.Context, apiKey, baseID string) (string, error) {
	const op = "create conversation"

	body, err := c.do(ctx, op, http.MethodPost, c.baseURL+"/chats/"+baseID, apiKey, map[string]any{})
	if err != nil {
		if nf, ok := err.(*NotFoundError); ok {
			nf.Target = "base"
			nf.ID = baseID
		}
		return "", err
	}

	var envelope struct {
		ID     string `json:"id"`
		ChatID string `json:"chatId"`
		Data   struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &MalformedResponseError{Op: op, RawText: string(body)}
	}

	switch {
	case envelope.ID != "":
		return envelope.ID, nil
	case envelope.ChatID != "":
		return envelope.ChatID, nil
	case envelope.Data.ID != "":
		return envelope.Data.ID, nil
	}
	return "", &MissingIdentifierError{Op: op}
}

// PostMessage sends the user's text into an open conversation and returns
// the raw response payload for normalization. contextName, when non-empty,
// narrows the assistant's retrieval to that context.
func (c *Client) PostMessage(ctx context.Context, apiKey, chatID, text, contextName string) (json.RawMessage, error) {
	const op = "post message"

	reqBody := map[string]any{
		"content":        "User query: " + text,
		"includeContext": contextName != "",
		// The jsonSchema instructs the upstream model to answer with a
		// prompt field; it is a contract with the upstream, not local
		// validation.
		"jsonSchema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt": map[string]any{"type": "string"},
			},
			"required": []string{"prompt"},
		},
	}
	if contextName != "" {
		reqBody["contextName"] = contextName
	}

	body, err := c.do(ctx, op, http.MethodPost, c.baseURL+"/messages/"+chatID, apiKey, reqBody)
	if err != nil {
		if nf, ok := err.(*NotFoundError); ok {
			nf.Target = "conversation"
			nf.ID = chatID
		}
		return nil, err
	}
	return body, nil
}

// ListContexts fetches the named contexts available within a base.
func (c *Client) ListContexts(ctx context.Context, apiKey, baseID string) ([]Context, error) {
	const op = "list contexts"

	body, err := c.do(ctx, op, http.MethodGet, c.baseURL+"/bases/"+baseID+"/contexts", apiKey, nil)
	if err != nil {
		if nf, ok := err.(*NotFoundError); ok {
			nf.Target = "base"
			nf.ID = baseID
		}
		return nil, err
	}

	var contexts []Context
	if err := json.Unmarshal(body, &contexts); err == nil {
		return contexts, nil
	}
	// Some deployments wrap the list in an envelope.
	var envelope struct {
		Contexts []Context `json:"contexts"`
		Data     []Context `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Op: op, RawText: string(body)}
	}
	if envelope.Contexts != nil {
		return envelope.Contexts, nil
	}
	return envelope.Data, nil
}

// do executes one request and applies the uniform status mapping. A nil
// payload sends no body. The returned bytes are only guaranteed to be valid
// JSON-shaped text once the caller unmarshals them.
func (c *Client) do(ctx context.Context, op, method, url, apiKey string, payload any) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: execute request: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthenticationError{Op: op}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &AuthorizationError{Op: op}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Op: op}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if !json.Valid(respBody) {
		return nil, &MalformedResponseError{Op: op, RawText: string(respBody)}
	}
	return respBody, nil
}
