package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "giggles",
	Short: "A kid-friendly joke teller",
	Long: `Giggles tells kid-friendly jokes without repeating itself. It pulls jokes
from public joke APIs or a Gemini-backed generator and falls back to a
built-in joke book when they fail.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	// Set up logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
