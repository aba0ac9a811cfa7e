package main

import (
	"context"
	"fmt"

	"github.com/abdulachik/giggles/internal/config"
	"github.com/abdulachik/giggles/internal/db"
	"github.com/abdulachik/giggles/internal/joke"
	"github.com/abdulachik/giggles/internal/presenter"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive statistics",
	Long:  `Display statistics about generated jokes and ratings in the archive.`,
	RunE:  runStats,
}

var statsRecent int

func init() {
	statsCmd.Flags().IntVar(&statsRecent, "recent", 5, "Number of recent jokes to list")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	// Ensure migrations are run
	if _, err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	totalJokes, err := store.CountJokes(ctx)
	if err != nil {
		return fmt.Errorf("count jokes: %w", err)
	}

	byTopic, err := store.CountJokesByTopic(ctx)
	if err != nil {
		return fmt.Errorf("count jokes by topic: %w", err)
	}

	totalRatings, err := store.CountRatings(ctx)
	if err != nil {
		return fmt.Errorf("count ratings: %w", err)
	}

	avg, err := store.AverageRating(ctx)
	if err != nil {
		return fmt.Errorf("average rating: %w", err)
	}

	byMood, err := store.CountRatingsByMood(ctx)
	if err != nil {
		return fmt.Errorf("count ratings by mood: %w", err)
	}

	recent, err := store.ListRecentJokes(ctx, int64(statsRecent))
	if err != nil {
		return fmt.Errorf("list recent jokes: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Giggles Statistics ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Database: %s\n", cfg.DatabasePath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Jokes:")
	fmt.Fprintf(out, "  Total generated: %d\n", totalJokes)
	fmt.Fprintln(out)

	if len(byTopic) > 0 {
		fmt.Fprintln(out, "  By topic:")
		for _, row := range byTopic {
			fmt.Fprintf(out, "    %s: %d\n", row.Topic, row.Count)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Ratings:")
	fmt.Fprintf(out, "  Total: %d\n", totalRatings)
	if totalRatings > 0 {
		fmt.Fprintf(out, "  Average: %.1f\n", avg)
		for _, row := range byMood {
			fmt.Fprintf(out, "    %s: %d\n", row.Mood, row.Count)
		}
	}
	fmt.Fprintln(out)

	if len(recent) > 0 {
		fmt.Fprintln(out, "Recent jokes:")
		for _, row := range recent {
			j := joke.Joke{Setup: row.Setup, Punchline: row.Punchline}
			fmt.Fprintf(out, "  - %s\n", presenter.FormatShare(j, 100))
		}
		fmt.Fprintln(out)
	}

	return nil
}
