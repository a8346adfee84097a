// Package config provides configuration types and loading for humblebridge.
package config

// Config is the root configuration struct.
// Top-level groups: Gateway, Upstream, Store, Chat.
type Config struct {
	Gateway  GatewayConfig  `json:"gateway"`
	Upstream UpstreamConfig `json:"upstream"`
	Store    StoreConfig    `json:"store"`
	Chat     ChatConfig     `json:"chat"`
}

// GatewayConfig configures the inbound webhook HTTP server.
type GatewayConfig struct {
	Host      string `json:"host" envconfig:"HOST"`
	Port      int    `json:"port" envconfig:"PORT"`
	AuthToken string `json:"authToken,omitempty" envconfig:"AUTH_TOKEN"`
}

// UpstreamConfig configures the Humble AI assistant API endpoint.
type UpstreamConfig struct {
	BaseURL        string `json:"baseUrl" envconfig:"BASE_URL"`
	TimeoutSeconds int    `json:"timeoutSeconds" envconfig:"TIMEOUT_SECONDS"`
}

// StoreConfig configures the sqlite-backed persistence.
type StoreConfig struct {
	DBPath string `json:"dbPath" envconfig:"DB_PATH"`
}

// ChatConfig configures the Google Chat side of the bridge.
type ChatConfig struct {
	BotName string `json:"botName" envconfig:"BOT_NAME"`
	// CredentialsFile points at a service-account JSON used for the
	// typing indicator. Empty disables the indicator entirely.
	CredentialsFile string `json:"credentialsFile,omitempty" envconfig:"CREDENTIALS_FILE"`
	TypingIndicator bool   `json:"typingIndicator" envconfig:"TYPING_INDICATOR"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Upstream: UpstreamConfig{
			BaseURL:        "https://platform.thehumbleai.com/api/assistant",
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{
			DBPath: "", // resolved under the home dir at open time
		},
		Chat: ChatConfig{
			BotName:         "Humble AI",
			TypingIndicator: false,
		},
	}
}
