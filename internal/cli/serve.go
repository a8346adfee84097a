package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/humblebridge/humblebridge/internal/chat"
	"github.com/humblebridge/humblebridge/internal/config"
	"github.com/humblebridge/humblebridge/internal/engine"
	"github.com/humblebridge/humblebridge/internal/session"
	"github.com/humblebridge/humblebridge/internal/store"
	"github.com/humblebridge/humblebridge/internal/upstream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat webhook gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		dbPath, err := config.DBPath(cfg)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		logger := slog.Default()
		timeout := time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second
		client := upstream.NewClient(cfg.Upstream.BaseURL, timeout)

		var notifier engine.Notifier
		if cfg.Chat.TypingIndicator && cfg.Chat.CredentialsFile != "" {
			n, err := chat.NewNotifier(cmd.Context(), cfg.Chat.CredentialsFile, logger)
			if err != nil {
				logger.Warn("typing indicator disabled", "error", err)
			} else {
				notifier = n
			}
		}

		eng := engine.New(st, session.NewRegistry(st), client, notifier, cfg.Chat.BotName, logger)

		mux := http.NewServeMux()
		mux.Handle("/chat", WebhookHandler(eng, cfg.Gateway.AuthToken, timeout, logger))
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "ok")
		})

		addr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
		fmt.Printf("📡 Webhook gateway listening on http://%s/chat\n", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			return fmt.Errorf("gateway server: %w", err)
		}
		return nil
	},
}

// WebhookHandler handles inbound Google Chat events. Each request is one
// independent invocation with its own overall deadline; the reply is always
// a JSON document, an empty object when the engine chose not to respond.
func WebhookHandler(eng *engine.Engine, authToken string, timeout time.Duration, logger *slog.Logger) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authToken != "" {
			token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
			if token != authToken {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var ev chat.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "invalid event payload", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		reply := eng.Handle(ctx, &ev)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			logger.Error("encode reply", "error", err)
		}
	})
}
