package chat

import (
	"fmt"

	"github.com/humblebridge/humblebridge/internal/upstream"
	"github.com/humblebridge/humblebridge/internal/workspace"
)

const logoURL = "https://storage.googleapis.com/humble-ai-assets/humble-logo.png"

func header(title, subtitle string) Card {
	return Card{
		"title":    title,
		"subtitle": subtitle,
		"imageUrl": logoURL,
	}
}

func textWidget(text string) Card {
	return Card{"textParagraph": Card{"text": text}}
}

func actionButton(text, method, spaceID string, params ...Parameter) Card {
	parameters := []Card{{"key": "spaceId", "value": spaceID}}
	for _, p := range params {
		parameters = append(parameters, Card{"key": p.Key, "value": p.Value})
	}
	return Card{
		"text": text,
		"onClick": Card{
			"action": Card{
				"actionMethodName": method,
				"parameters":       parameters,
			},
		},
	}
}

func buttonList(buttons ...Card) Card {
	return Card{"buttonList": Card{"buttons": buttons}}
}

// HelpCard lists the available commands and usage.
func HelpCard(botName string) Reply {
	return Reply{Cards: []Card{{
		"header": header(botName+" Help", "Available commands and usage"),
		"sections": []Card{
			{
				"header": "Commands",
				"widgets": []Card{
					textWidget("<b>/help</b> - Show this help message"),
					textWidget("<b>/setup</b> - Configure API key and BASE IDs"),
					textWidget("<b>/config</b> - View current configuration"),
					textWidget("<b>/clear</b> - Start a new chat session"),
					textWidget("<b>/contexts</b> - List contexts for the active BASE ID"),
				},
			},
			{
				"header": "Usage",
				"widgets": []Card{
					textWidget("In direct messages, simply type your question."),
					textWidget(fmt.Sprintf("In rooms, mention the bot: <b>@%s what is machine learning?</b>", botName)),
				},
			},
		},
	}}}
}

// SetupCard prompts for the API key and a first BASE ID. It doubles as the
// "configure me first" reply whenever a space's config is incomplete.
func SetupCard(botName, spaceID string) Reply {
	return Reply{Cards: []Card{{
		"header": header(botName+" Setup", "Configure your API key and BASE IDs"),
		"sections": []Card{
			{
				"widgets": []Card{
					textWidget(fmt.Sprintf("To use %s, you need to configure your API key and at least one BASE ID.", botName)),
				},
			},
			{
				"header": "API Key",
				"widgets": []Card{
					{"textInput": Card{"label": "Enter your API Key", "type": "PASSWORD", "name": "apiKey"}},
					buttonList(actionButton("Save API Key", "saveApiKey", spaceID,
						Parameter{Key: "apiKey", Value: "${apiKey}"})),
				},
			},
			{
				"header": "BASE ID",
				"widgets": []Card{
					{"textInput": Card{"label": "BASE ID Name", "name": "baseIdName"}},
					{"textInput": Card{"label": "BASE ID Value", "name": "baseIdValue"}},
					buttonList(actionButton("Add BASE ID", "saveBaseId", spaceID,
						Parameter{Key: "baseIdName", Value: "${baseIdName}"},
						Parameter{Key: "baseIdValue", Value: "${baseIdValue}"})),
				},
			},
		},
	}}}
}

// ConfigCard shows the current space configuration with management actions.
// The API key is always masked.
func ConfigCard(botName, spaceID string, cfg *workspace.Config) Reply {
	apiKeyText := "API Key: Not configured"
	if cfg.APIKey != "" {
		apiKeyText = "API Key: ••••••••••••••••"
	}

	baseWidgets := []Card{}
	if len(cfg.Bases) == 0 {
		baseWidgets = append(baseWidgets, textWidget("No BASE IDs configured"))
	}
	for _, base := range cfg.Bases {
		label := base.Name
		if base.IsDefault {
			label += " (Default)"
		}
		baseWidgets = append(baseWidgets, Card{
			"decoratedText": Card{
				"text":        label,
				"startIcon":   Card{"knownIcon": "DESCRIPTION"},
				"bottomLabel": base.ID,
			},
		})
		baseWidgets = append(baseWidgets, buttonList(
			actionButton("Set Default", "setDefaultBaseId", spaceID,
				Parameter{Key: "baseIdValue", Value: base.ID}),
			actionButton("Delete", "deleteBaseId", spaceID,
				Parameter{Key: "baseIdValue", Value: base.ID}),
		))
	}

	return Reply{Cards: []Card{{
		"header": header(botName+" Configuration", "Current settings"),
		"sections": []Card{
			{
				"header":  "API Key",
				"widgets": []Card{textWidget(apiKeyText)},
			},
			{
				"header":  "BASE IDs",
				"widgets": baseWidgets,
			},
			{
				"header": "Actions",
				"widgets": []Card{buttonList(
					actionButton("New Chat", "newChat", spaceID),
					actionButton("Reset Configuration", "resetConfig", spaceID),
				)},
			},
		},
	}}}
}

// ContextsCard lists the contexts of the active base with selection
// buttons. The first entry always offers the default (no context) mode.
func ContextsCard(botName, spaceID, activeContext string, contexts []upstream.Context) Reply {
	widgets := []Card{}

	defaultLabel := "Default Context"
	if activeContext == "" {
		defaultLabel += " (Active)"
	}
	widgets = append(widgets,
		textWidget(defaultLabel),
		buttonList(actionButton("Use Default", "setContext", spaceID,
			Parameter{Key: "contextName", Value: ""})),
	)

	for _, c := range contexts {
		label := c.Label()
		if label == "" {
			continue
		}
		display := label
		if label == activeContext {
			display += " (Active)"
		}
		widgets = append(widgets,
			textWidget(display),
			buttonList(actionButton("Select", "setContext", spaceID,
				Parameter{Key: "contextName", Value: label})),
		)
	}

	return Reply{Cards: []Card{{
		"header": header(botName+" Contexts", "Narrow the assistant's retrieval scope"),
		"sections": []Card{
			{"header": "Available Contexts", "widgets": widgets},
		},
	}}}
}
