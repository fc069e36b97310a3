package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string

	// Version is set at build time.
	Version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "volumechat",
	Short: "Chat with an LLM or look up Binance trading-day volume",
	Long: `volumechat serves a chat page that answers volume questions from the
Binance public API and everything else from the configured model.

Examples:
  volumechat serve                       Start the web UI on :3000
  volumechat serve --addr :8080
  volumechat ask "What's the volume of Bitcoin?"
  volumechat ask "Tell me a joke" --raw`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	rootCmd.AddCommand(newServeCmd(), newAskCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
