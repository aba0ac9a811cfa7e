package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/abdulachik/giggles/internal/acquire"
	"github.com/abdulachik/giggles/internal/app"
	"github.com/abdulachik/giggles/internal/config"
	"github.com/abdulachik/giggles/internal/presenter"
	"github.com/spf13/cobra"
)

var tellCmd = &cobra.Command{
	Use:   "tell",
	Short: "Tell jokes in the terminal",
	Long: `Tell jokes interactively. Press Enter for the next joke, type a number
from 0 to 100 to rate the last one, or q to quit. With --count, tell that
many jokes and exit.`,
	RunE: runTell,
}

var (
	tellCount int
	tellWidth int
)

func init() {
	tellCmd.Flags().IntVarP(&tellCount, "count", "n", 0, "Tell this many jokes and exit (0 = interactive)")
	tellCmd.Flags().IntVar(&tellWidth, "width", 72, "Wrap jokes at this many characters")
	rootCmd.AddCommand(tellCmd)
}

func runTell(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	driver := presenter.NewDriver(presenter.DriverConfig{
		Acquirer:    a.Orchestrator,
		Renderer:    presenter.NewTerminalRenderer(out, tellWidth),
		RevealDelay: cfg.RevealDelay,
	})
	defer driver.Stop()

	slog.Debug("telling jokes", "source", a.Source.Name(), "count", tellCount)

	if tellCount > 0 {
		for i := 0; i < tellCount; i++ {
			if _, err := tellOne(ctx, driver, a, out); err != nil {
				return err
			}
		}
		return nil
	}

	return tellInteractive(ctx, driver, a, cmd.InOrStdin(), out)
}

func tellOne(ctx context.Context, driver *presenter.Driver, a *app.App, out io.Writer) (acquire.Result, error) {
	res, ok := driver.Tell(ctx)
	if !ok {
		return res, nil
	}
	if err := driver.WaitReveal(ctx); err != nil {
		return res, err
	}
	fmt.Fprintf(out, "\n  [%s via %s] Jokes told: %d\n", res.Outcome, sourceLabel(res), a.Ledger.Len())
	return res, nil
}

func tellInteractive(ctx context.Context, driver *presenter.Driver, a *app.App, in io.Reader, out io.Writer) error {
	last, err := tellOne(ctx, driver, a, out)
	if err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "\n[Enter] next joke, 0-100 rate, q quit > ")

		var line string
		var open bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, open = <-lines:
			if !open {
				fmt.Fprintln(out)
				return nil
			}
		}

		input := strings.TrimSpace(line)
		switch {
		case input == "":
			if last, err = tellOne(ctx, driver, a, out); err != nil {
				return err
			}
		case strings.EqualFold(input, "q"):
			fmt.Fprintln(out, "Bye! Giggles will be here when you need a laugh.")
			return nil
		default:
			rating, convErr := strconv.Atoi(input)
			if convErr != nil || rating < 0 || rating > 100 {
				fmt.Fprintln(out, "  Please enter a number from 0 to 100.")
				continue
			}
			if last.IsApology() || last.Joke.IsZero() {
				fmt.Fprintln(out, "  There's no joke to rate yet.")
				continue
			}
			mood := driver.Rate(rating)
			if _, err := a.Store.RecordRating(ctx, last.Joke, rating, string(mood)); err != nil {
				slog.Warn("archive rating failed", "error", err)
			}
		}
	}
}

func sourceLabel(res acquire.Result) string {
	if res.Source == "" {
		return "nowhere"
	}
	return res.Source
}
