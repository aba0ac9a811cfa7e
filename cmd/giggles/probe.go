package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/abdulachik/giggles/internal/app"
	"github.com/abdulachik/giggles/internal/config"
	"github.com/abdulachik/giggles/internal/presenter"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check every public joke API once",
	Long:  `Fetch one joke from every public joke API concurrently and print a status table.`,
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	results := a.Prober().ProbeAll(ctx)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tSTATUS\tLATENCY\tSAMPLE")
	for _, res := range results {
		status := "ok"
		sample := presenter.FormatShare(res.Joke, 60)
		if !res.OK {
			status = "down"
			if s := a.Health.GetStatus(res.Source); s != nil {
				sample = s.Message
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Source, status, res.Latency.Round(time.Millisecond), sample)
	}
	return w.Flush()
}
