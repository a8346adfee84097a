package chat

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2/google"
	chatapi "google.golang.org/api/chat/v1"
	"google.golang.org/api/option"
)

const chatBotScope = "https://www.googleapis.com/auth/chat.bot"

// Notifier sends out-of-band messages to the Google Chat API, outside the
// synchronous webhook reply. Its only current use is the typing indicator.
type Notifier struct {
	svc    *chatapi.Service
	logger *slog.Logger
}

// NewNotifier builds a notifier authenticated with the given service
// account credentials file.
func NewNotifier(ctx context.Context, credentialsFile string, logger *slog.Logger) (*Notifier, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read chat credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, chatBotScope)
	if err != nil {
		return nil, fmt.Errorf("parse chat credentials: %w", err)
	}
	svc, err := chatapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create chat service: %w", err)
	}
	return &Notifier{svc: svc, logger: logger}, nil
}

// Typing signals that the bot is composing a reply in the given space.
// Best-effort: failures are logged and swallowed so a broken indicator
// never delays or kills the actual reply.
func (n *Notifier) Typing(ctx context.Context, spaceName string, thread *Thread) {
	if n == nil || n.svc == nil {
		return
	}
	msg := &chatapi.Message{
		Text:           "",
		ActionResponse: &chatapi.ActionResponse{Type: "TYPING"},
	}
	if thread != nil {
		msg.Thread = &chatapi.Thread{Name: thread.Name}
	}
	if _, err := n.svc.Spaces.Messages.Create(spaceName, msg).Context(ctx).Do(); err != nil {
		n.logger.Warn("typing indicator failed", "space", spaceName, "error", err)
	}
}
