package engine

import (
	"context"
	"errors"

	"github.com/humblebridge/humblebridge/internal/chat"
	"github.com/humblebridge/humblebridge/internal/workspace"
)

// handleCardAction dispatches the mutation handlers behind the setup and
// config cards. Each handler performs one read-modify-write against the
// space's configuration document and answers with a confirmation or a
// validation message.
func (e *Engine) handleCardAction(ctx context.Context, inv *invocation) chat.Reply {
	ev := inv.event
	if ev.Action == nil || ev.Action.ActionMethodName == "" {
		return chat.Textf("Invalid card action.")
	}

	spaceID := ev.Action.Parameter("spaceId")
	if spaceID == "" {
		spaceID = ev.Space.Name
	}
	inv.logger = inv.logger.With("action", ev.Action.ActionMethodName)

	switch ev.Action.ActionMethodName {
	case "saveApiKey":
		return e.saveAPIKey(inv, spaceID, ev.Action.Parameter("apiKey"))
	case "saveBaseId":
		return e.saveBase(inv, spaceID, ev.Action.Parameter("baseIdName"), ev.Action.Parameter("baseIdValue"))
	case "setDefaultBaseId":
		return e.setDefaultBase(inv, spaceID, ev.Action.Parameter("baseIdValue"))
	case "deleteBaseId":
		return e.deleteBase(inv, spaceID, ev.Action.Parameter("baseIdValue"))
	case "newChat":
		return e.newChat(inv, spaceID)
	case "setContext":
		return e.setContext(inv, spaceID, ev.Action.Parameter("contextName"))
	case "resetConfig":
		return e.resetConfig(inv, spaceID)
	default:
		return chat.Textf("Unknown action.")
	}
}

func (e *Engine) saveAPIKey(inv *invocation, spaceID, apiKey string) chat.Reply {
	if apiKey == "" {
		return chat.Textf("API key cannot be empty.")
	}
	if err := e.store.SetWorkspaceConfig(spaceID, workspace.Partial{APIKey: &apiKey}); err != nil {
		inv.logger.Error("save api key", "error", err)
		return chat.Textf("Error saving API key: %v", err)
	}
	return chat.Textf("API key saved successfully! Now add a BASE ID to complete setup.")
}

func (e *Engine) saveBase(inv *invocation, spaceID, name, id string) chat.Reply {
	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error saving BASE ID: %v", err)
	}
	wasEmpty := len(cfg.Bases) == 0
	if err := cfg.AddBase(name, id); err != nil {
		return validationReply(err, "Error saving BASE ID: %v")
	}
	if err := e.store.SetWorkspaceConfig(spaceID, workspace.Partial{
		Bases:        &cfg.Bases,
		ActiveBaseID: &cfg.ActiveBaseID,
	}); err != nil {
		inv.logger.Error("save base", "error", err)
		return chat.Textf("Error saving BASE ID: %v", err)
	}
	if wasEmpty {
		return chat.Textf("BASE ID %q added successfully! It has been set as the default.", name)
	}
	return chat.Textf("BASE ID %q added successfully!", name)
}

func (e *Engine) setDefaultBase(inv *invocation, spaceID, id string) chat.Reply {
	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error setting default BASE ID: %v", err)
	}
	if err := cfg.SetDefaultBase(id); err != nil {
		return validationReply(err, "Error setting default BASE ID: %v")
	}
	if err := e.store.SetWorkspaceConfig(spaceID, workspace.Partial{
		Bases:        &cfg.Bases,
		ActiveBaseID: &cfg.ActiveBaseID,
	}); err != nil {
		inv.logger.Error("set default base", "error", err)
		return chat.Textf("Error setting default BASE ID: %v", err)
	}
	return chat.Textf("BASE ID %q set as default.", cfg.FindBase(id).Name)
}

func (e *Engine) deleteBase(inv *invocation, spaceID, id string) chat.Reply {
	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error deleting BASE ID: %v", err)
	}
	deleted, err := cfg.DeleteBase(id)
	if err != nil {
		return validationReply(err, "Error deleting BASE ID: %v")
	}
	if err := e.store.SetWorkspaceConfig(spaceID, workspace.Partial{
		Bases:        &cfg.Bases,
		ActiveBaseID: &cfg.ActiveBaseID,
	}); err != nil {
		inv.logger.Error("delete base", "error", err)
		return chat.Textf("Error deleting BASE ID: %v", err)
	}
	return chat.Textf("BASE ID %q deleted successfully.", deleted.Name)
}

func (e *Engine) newChat(inv *invocation, spaceID string) chat.Reply {
	cfg, err := e.store.GetWorkspaceConfig(spaceID)
	if err != nil {
		inv.logger.Error("load workspace config", "error", err)
		return chat.Textf("Error starting new chat: %v", err)
	}
	if !cfg.Complete() {
		return chat.SetupCard(e.botName, spaceID)
	}
	if err := e.sessions.ClearSession(cfg.ActiveBaseID); err != nil {
		inv.logger.Error("clear session", "base", cfg.ActiveBaseID, "error", err)
		return chat.Textf("Error starting new chat: %v", err)
	}
	return chat.Textf("Started a new chat session. You can now ask me a question!")
}

func (e *Engine) setContext(inv *invocation, spaceID, contextName string) chat.Reply {
	if err := e.store.SetWorkspaceConfig(spaceID, workspace.Partial{ActiveContext: &contextName}); err != nil {
		inv.logger.Error("set context", "error", err)
		return chat.Textf("Error selecting context: %v", err)
	}
	if contextName == "" {
		return chat.Textf("Context cleared. The assistant will use the default retrieval scope.")
	}
	return chat.Textf("Context %q selected.", contextName)
}

func (e *Engine) resetConfig(inv *invocation, spaceID string) chat.Reply {
	if err := e.store.ResetWorkspaceConfig(spaceID); err != nil {
		inv.logger.Error("reset config", "error", err)
		return chat.Textf("Error resetting configuration: %v", err)
	}
	inv.logger.Info("workspace config reset")
	return chat.Textf("Configuration reset. Use /setup to configure the bot again.")
}

// validationReply shows validation failures verbatim and wraps anything
// else in the given error template.
func validationReply(err error, format string) chat.Reply {
	var verr *workspace.ValidationError
	if errors.As(err, &verr) {
		return chat.Textf("%s", verr.Msg)
	}
	return chat.Textf(format, err)
}
