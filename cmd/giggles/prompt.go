package main

import (
	"fmt"
	"strings"

	"github.com/abdulachik/giggles/internal/catalog"
	"github.com/abdulachik/giggles/internal/config"
	"github.com/abdulachik/giggles/internal/prompt"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the generation prompt for a topic",
	Long:  `Print the exact prompt sent to Gemini for a topic and a list of recently used topics.`,
	RunE:  runPrompt,
}

var (
	promptTopic  string
	promptRecent string
)

func init() {
	promptCmd.Flags().StringVarP(&promptTopic, "topic", "t", "", "Joke topic (empty for a generic one)")
	promptCmd.Flags().StringVarP(&promptRecent, "recent", "r", "", "Comma-separated recently used topics")
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var recent []string
	for _, t := range strings.Split(promptRecent, ",") {
		if t = strings.TrimSpace(t); t != "" {
			recent = append(recent, t)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), prompt.New(cat).Build(strings.TrimSpace(promptTopic), recent))
	return nil
}
