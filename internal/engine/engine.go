// Package engine reconciles inbound chat events against per-space
// configuration and upstream conversation state, producing one reply per
// event.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/humblebridge/humblebridge/internal/chat"
	"github.com/humblebridge/humblebridge/internal/session"
	"github.com/humblebridge/humblebridge/internal/store"
	"github.com/humblebridge/humblebridge/internal/upstream"
)

// Slash command ids as registered with the chat platform.
const (
	cmdHelp     = "1"
	cmdSetup    = "2"
	cmdConfig   = "3"
	cmdClear    = "4"
	cmdContexts = "5"
)

// Notifier sends best-effort out-of-band signals to the chat platform.
type Notifier interface {
	Typing(ctx context.Context, spaceName string, thread *chat.Thread)
}

// Engine orchestrates the store, session registry and upstream client for
// one inbound event at a time. It holds no per-conversation state of its
// own; everything mutable lives in the store.
type Engine struct {
	store    *store.Store
	sessions *session.Registry
	client   *upstream.Client
	notifier Notifier
	botName  string
	logger   *slog.Logger
}

// New creates an engine. notifier may be nil to disable typing indicators.
func New(st *store.Store, reg *session.Registry, client *upstream.Client, notifier Notifier, botName string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if botName == "" {
		botName = "Humble AI"
	}
	return &Engine{
		store:    st,
		sessions: reg,
		client:   client,
		notifier: notifier,
		botName:  botName,
		logger:   logger,
	}
}

// invocation carries the per-event state threaded through the handlers, so
// nothing about the current event ever lands in package or engine fields.
type invocation struct {
	event  *chat.Event
	logger *slog.Logger
}

// Handle classifies one inbound event and produces its reply. Every error,
// upstream or local, surfaces as user-readable text; nothing escapes as a
// raw failure to the transport boundary.
func (e *Engine) Handle(ctx context.Context, ev *chat.Event) chat.Reply {
	inv := &invocation{
		event: ev,
		logger: e.logger.With(
			"trace_id", uuid.NewString(),
			"event_type", ev.Type,
			"space", ev.Space.Name,
		),
	}

	switch ev.Type {
	case chat.EventAddedToSpace:
		return e.greet(inv)
	case chat.EventRemovedFromSpace:
		return chat.Textf("Bot was removed from the space.")
	case chat.EventMessage:
		return e.handleMessage(ctx, inv)
	case chat.EventCardClicked:
		return e.handleCardAction(ctx, inv)
	default:
		inv.logger.Warn("unhandled event type")
		return chat.Textf("Unhandled event type.")
	}
}

func (e *Engine) greet(inv *invocation) chat.Reply {
	ev := inv.event
	if ev.Space.IsDM() {
		return chat.Textf("Hi %s! I'm %s Bot. You can ask me questions or use commands like `/help` to learn more.",
			ev.User.DisplayName, e.botName)
	}
	return chat.Textf("Hi everyone! I'm %s Bot. Mention me in a message or use commands like `@%s /help` to interact with me.",
		e.botName, e.botName)
}

func (e *Engine) handleMessage(ctx context.Context, inv *invocation) chat.Reply {
	ev := inv.event
	if ev.Message == nil {
		return chat.Textf("Invalid message event.")
	}

	if ev.Message.SlashCommand != nil {
		return e.handleSlashCommand(ctx, inv)
	}

	// In a room the bot only answers when mentioned; in a DM it always
	// answers. Not responding is terminal with no output at all.
	if !ev.Space.IsDM() && !ev.Message.MentionsBot() {
		return chat.Reply{}
	}

	cleaned := ev.Message.StripMentions()
	return e.relay(ctx, inv, cleaned)
}

// relay is the freeform-message path: check configuration, resolve or
// create the upstream conversation, post the text, normalize the reply.
func (e *Engine) relay(ctx context.Context, inv *invocation, text string) chat.Reply {
	ev := inv.event
	spaceID := ev.Space.Name

	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error reading configuration: %v", err)
	}
	if cfg.Heal() {
		inv.logger.Info("workspace config healed", "active_base", cfg.ActiveBaseID)
		if err := e.store.SaveWorkspaceConfig(spaceID, cfg); err != nil {
			inv.logger.Error("persist healed config", "error", err)
		}
	}
	if !cfg.Complete() {
		return chat.SetupCard(e.botName, spaceID)
	}

	if e.notifier != nil {
		e.notifier.Typing(ctx, spaceID, ev.Message.Thread)
	}

	chatID, ok, err := e.sessions.SessionID(cfg.ActiveBaseID)
	if err != nil {
		inv.logger.Error("read session", "base", cfg.ActiveBaseID, "error", err)
		return chat.Textf("Error reading session state: %v", err)
	}
	if !ok {
		chatID, err = e.client.CreateConversation(ctx, cfg.APIKey, cfg.ActiveBaseID)
		if err != nil {
			inv.logger.Error("create conversation", "base", cfg.ActiveBaseID, "error", err)
			return chat.Textf("%s", e.userErrorText(err))
		}
		if err := e.sessions.SetSessionID(cfg.ActiveBaseID, chatID); err != nil {
			inv.logger.Error("persist session", "base", cfg.ActiveBaseID, "error", err)
			return chat.Textf("Error saving session state: %v", err)
		}
		inv.logger.Info("conversation created", "base", cfg.ActiveBaseID, "chat_id", chatID)
	}

	raw, err := e.client.PostMessage(ctx, cfg.APIKey, chatID, text, cfg.ActiveContext)
	if err != nil {
		inv.logger.Error("post message", "chat_id", chatID, "error", err)
		return chat.Textf("%s", e.userErrorText(err))
	}

	reply := upstream.Normalize(raw)
	inv.logger.Info("message relayed", "chat_id", chatID, "reply_chars", len(reply.Text))
	return chat.Reply{Text: reply.Text}
}

func (e *Engine) handleSlashCommand(ctx context.Context, inv *invocation) chat.Reply {
	ev := inv.event
	spaceID := ev.Space.Name

	switch ev.Message.SlashCommand.CommandID {
	case cmdHelp:
		return chat.HelpCard(e.botName)
	case cmdSetup:
		return chat.SetupCard(e.botName, spaceID)
	case cmdConfig:
		return e.showConfig(inv, spaceID)
	case cmdClear:
		return e.clearSession(inv, spaceID)
	case cmdContexts:
		return e.listContexts(ctx, inv, spaceID)
	default:
		return chat.Textf("Unknown command. Try /help to see available commands.")
	}
}

func (e *Engine) showConfig(inv *invocation, spaceID string) chat.Reply {
	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error retrieving configuration: %v", err)
	}
	if cfg.APIKey == "" {
		return chat.SetupCard(e.botName, spaceID)
	}
	return chat.ConfigCard(e.botName, spaceID, cfg)
}

func (e *Engine) clearSession(inv *invocation, spaceID string) chat.Reply {
	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error clearing chat: %v", err)
	}
	if !cfg.Complete() {
		return chat.SetupCard(e.botName, spaceID)
	}
	if err := e.sessions.ClearSession(cfg.ActiveBaseID); err != nil {
		inv.logger.Error("clear session", "base", cfg.ActiveBaseID, "error", err)
		return chat.Textf("Error clearing chat: %v", err)
	}
	return chat.Textf("Chat history cleared. You can now start a new conversation!")
}

func (e *Engine) listContexts(ctx context.Context, inv *invocation, spaceID string) chat.Reply {
	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error retrieving contexts: %v", err)
	}
	if !cfg.Complete() {
		return chat.SetupCard(e.botName, spaceID)
	}
	contexts, err := e.client.ListContexts(ctx, cfg.APIKey, cfg.ActiveBaseID)
	if err != nil {
		inv.logger.Error("list contexts", "base", cfg.ActiveBaseID, "error", err)
		return chat.Textf("%s", e.userErrorText(err))
	}
	return chat.ContextsCard(e.botName, spaceID, cfg.ActiveContext, contexts)
}

// userErrorText turns any failure from the upstream client into the text a
// user sees. This is the single translation point mandated by the error
// design; raw errors never cross the outbound interface.
func (e *Engine) userErrorText(err error) string {
	var (
		authn     *upstream.AuthenticationError
		authz     *upstream.AuthorizationError
		notFound  *upstream.NotFoundError
		missingID *upstream.MissingIdentifierError
		malformed *upstream.MalformedResponseError
		apiErr    *upstream.APIError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The request to " + e.botName + " timed out. Please try again."
	case errors.As(err, &authn):
		return "Authentication failed: your API key appears to be invalid. Use /setup to update it."
	case errors.As(err, &authz):
		return "Authorization failed: your API key lacks permission for this BASE ID."
	case errors.As(err, &notFound):
		if notFound.Target == "conversation" {
			return "The current chat session no longer exists upstream. Use /clear to start a new one."
		}
		return "BASE ID not found: please check your BASE ID configuration with /config."
	case errors.As(err, &missingID):
		return "Error communicating with " + e.botName + ": the API response was missing a chat ID."
	case errors.As(err, &malformed):
		return "Error communicating with " + e.botName + ": the API returned an unreadable response."
	case errors.As(err, &apiErr):
		return "Error communicating with " + e.botName + ": " + apiErr.Error()
	default:
		return "Error communicating with " + e.botName + ": " + err.Error()
	}
}
