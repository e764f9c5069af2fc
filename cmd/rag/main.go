package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/api"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/config"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/prompt"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/tui"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/watcher"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "rag",
		Short:        "Question answering over Houston nonprofit filings",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/houston-rag/config.yaml)")

	root.AddCommand(
		newServeCmd(&cfgPath),
		newChatCmd(&cfgPath),
		newSearchCmd(&cfgPath),
	)
	return root
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := build(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer c.Close()

			if c.cfg.Dataset.Watch && c.cfg.Dataset.Source == "file" {
				startWatcher(ctx, c)
			}

			app := api.NewApp(api.AppOptions{
				Service:     c.service,
				Logger:      c.log,
				CORSOrigins: c.cfg.Server.CORSOrigins,
			})
			errCh := make(chan error, 1)
			go func() {
				c.log.Info("server listening", map[string]interface{}{"address": c.cfg.Server.Address})
				errCh <- app.Listen(c.cfg.Server.Address)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server stopped: %w", err)
			case <-ctx.Done():
			}

			c.log.Info("shutdown signal received, draining requests", nil)
			if err := app.ShutdownWithTimeout(c.cfg.Server.ShutdownTimeout()); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}

func startWatcher(ctx context.Context, c *components) {
	w, err := watcher.New(c.cfg.Dataset.Path, c.log)
	if err != nil {
		c.log.WithError(err).Warn("dataset watcher disabled", nil)
		return
	}
	events, err := w.Watch(ctx)
	if err != nil {
		_ = w.Stop()
		c.log.WithError(err).Warn("dataset watcher disabled", nil)
		return
	}
	c.closers = append(c.closers, w.Stop)
	go func() {
		for range events {
		}
	}()
}

func newChatCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := build(cmd.Context(), *cfgPath, func(cfg *config.AppConfig) {
				// the TUI owns the terminal
				cfg.Logging.Level = "error"
			})
			if err != nil {
				return err
			}
			defer c.Close()

			summary := fmt.Sprintf("%d organizations indexed, %d terms", c.store.Len(), c.ranker.Stats().VocabularySize)
			_, err = tea.NewProgram(tui.New(c.service, summary), tea.WithAltScreen()).Run()
			return err
		},
	}
}

func newSearchCmd(cfgPath *string) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Print the organizations a question would cite",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer c.Close()

			query := strings.Join(args, " ")
			intent, results := c.ranker.Rank(query, k)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "intent: %s\n", intent)
			if len(results) == 0 {
				return errors.New("no matching organizations")
			}
			for _, r := range results {
				fmt.Fprintf(out, "%2d. %-50s %8.3f  %s\n", r.Rank, r.Record.Name, r.Score, prompt.FormatUSD(r.Record.TotalRevenue))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "Number of results (0 uses the intent's default)")
	return cmd
}
