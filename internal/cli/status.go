package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/humblebridge/humblebridge/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ HumbleBridge Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 HumbleBridge Status")
		fmt.Printf("Version: %s\n", version)

		configPath, err := config.ConfigPath()
		if err == nil {
			if _, err := os.Stat(configPath); err == nil {
				fmt.Println("Config:   ✓ Found (" + configPath + ")")
			} else {
				fmt.Println("Config:   ✗ Not found (defaults in effect)")
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Println("Config:   ? Unable to load:", err)
			return
		}
		fmt.Printf("Gateway:  %s:%d\n", cfg.Gateway.Host, cfg.Gateway.Port)
		fmt.Printf("Upstream: %s\n", cfg.Upstream.BaseURL)

		dbPath, err := config.DBPath(cfg)
		if err == nil {
			if _, err := os.Stat(dbPath); err == nil {
				fmt.Println("Store:    ✓ Found (" + dbPath + ")")
			} else {
				fmt.Println("Store:    ✗ Not created yet (" + dbPath + ")")
			}
		}

		if cfg.Chat.TypingIndicator && cfg.Chat.CredentialsFile != "" {
			fmt.Println("Typing:   ✓ Enabled")
		} else {
			fmt.Println("Typing:   ✗ Disabled")
		}
	},
}
