package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/playerdex/internal/adapters/loader"
	app "github.com/okian/playerdex/internal/app"
	"github.com/okian/playerdex/internal/config"
	"github.com/okian/playerdex/pkg/logger"
	"github.com/spf13/cobra"
)

// configEnv names the YAML config file read by config.Load.
const configEnv = "PLAYERDEX_CONFIG"

var (
	// Global flags
	configPath  string
	playersPath string
	tagsPath    string
	ratingsPath string
	jsonOut     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "playerdex",
	Short: "Query a football player catalog loaded from CSV files",
	Long: `playerdex loads players, tags and user ratings from CSV files into
in-memory indexes and answers prefix, tag, top-by-position and user
history queries.

Example:
  playerdex repl
  playerdex player lionel
  playerdex top 10 ST --json
  playerdex serve`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+configEnv+")")
	rootCmd.PersistentFlags().StringVar(&playersPath, "players", "", "players CSV file")
	rootCmd.PersistentFlags().StringVar(&tagsPath, "tags", "", "tags CSV file")
	rootCmd.PersistentFlags().StringVar(&ratingsPath, "ratings", "", "ratings CSV file")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging. Only serve logs to
// stdout; the other commands keep stdout for results.
func setup(cmd *cobra.Command, _ []string) error {
	if configPath != "" {
		if err := os.Setenv(configEnv, configPath); err != nil {
			return fmt.Errorf("set %s: %w", configEnv, err)
		}
	}

	c, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	applyFlags(c)
	cfg = c

	var w io.Writer = os.Stderr
	if cmd.Name() == serveCmd.Name() {
		w = os.Stdout
	}
	if err := logger.InitWithFormat(cfg.LogFormat, w); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

func applyFlags(c *config.Config) {
	if playersPath != "" {
		c.PlayersPath = playersPath
	}
	if tagsPath != "" {
		c.TagsPath = tagsPath
	}
	if ratingsPath != "" {
		c.RatingsPath = ratingsPath
	}
}

// newService builds the query service described by c.
func newService(c *config.Config) *app.Service {
	return app.New(
		app.WithLogger(logger.Get()),
		app.WithFiles(loader.Files{
			Players: c.PlayersPath,
			Tags:    c.TagsPath,
			Ratings: c.RatingsPath,
		}),
		app.WithPlayerBuckets(c.PlayerBuckets),
		app.WithUserBuckets(c.UserBuckets),
		app.WithQueueSize(c.IngestQueueSize),
		app.WithHistoryLimit(c.HistoryLimit),
		app.WithMaxLoadFactor(c.MaxLoadFactor),
		app.WithNameOverwrite(c.NameIndexOverwrite),
		app.WithDedupeSize(c.DedupeSize),
	)
}
