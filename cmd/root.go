package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/abhisek/skillora/internal/config"
	"github.com/abhisek/skillora/internal/event"
	"github.com/abhisek/skillora/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillora",
	Short: "AI tutor that records how students learn",
	Long: "Skillora runs tutoring chats for grades 1-12 and records the learning signals\n" +
		"behind them: breakthroughs, misconceptions and frustration.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLORA_DB env var)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(curriculumCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, letting --db take priority over
// SKILLORA_DB.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	return cfg, nil
}

// openRecorder opens the configured store and, when AMQP is configured,
// attaches a publisher. A broker that cannot be reached only disables
// publishing. The returned func closes everything.
func openRecorder(ctx context.Context, cfg *config.Config) (*store.Recorder, func(), error) {
	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	opts := []store.RecorderOption{store.WithLogger(slog.Default())}
	closers := []func() error{kv.Close}

	if cfg.PublishingEnabled() {
		pub, err := event.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Warn("record publishing disabled", "error", err)
		} else {
			opts = append(opts, store.WithPublisher(pub))
			closers = append(closers, pub.Close)
		}
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				slog.Warn("close", "error", err)
			}
		}
	}
	return store.NewRecorder(kv, opts...), closeAll, nil
}

// withRecorder loads config, opens the recorder and runs fn with it.
func withRecorder(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, rec *store.Recorder) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rec, closeAll, err := openRecorder(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAll()
	return fn(ctx, cfg, rec)
}
