// Package cli implements the humblebridge command line interface.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/humblebridge/humblebridge/internal/cli.version=1.2.3"
	version = "1.1.0"
	logo    = "\n" +
		"  _   _                 _     _      ____       _     _\n" +
		" | | | |_   _ _ __ ___ | |__ | | ___| __ ) _ __(_) __| | __ _  ___\n" +
		" | |_| | | | | '_ ` _ \\| '_ \\| |/ _ \\  _ \\| '__| |/ _` |/ _` |/ _ \\\n" +
		" |  _  | |_| | | | | | | |_) | |  __/ |_) | |  | | (_| | (_| |  __/\n" +
		" |_| |_|\\__,_|_| |_| |_|_.__/|_|\\___|____/|_|  |_|\\__,_|\\__, |\\___|\n" +
		"                                                        |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "humblebridge",
	Short: "HumbleBridge - Google Chat to Humble AI relay",
	Long:  color.CyanString(logo) + "\nA bridge relaying Google Chat messages to the Humble AI assistant API.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}
