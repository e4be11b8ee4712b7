package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/spf13/cobra"
)

// app holds the settings resolved by the root command for every subcommand.
var app struct {
	cfg     config.Config
	logger  *slog.Logger
	closers []io.Closer
}

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "turing runs single-tape Turing machines",
	Long: `turing loads Turing machine descriptions (three header lines naming the
initial, accept and reject states, then one (STATE,READ)->(NEXT,WRITE,MOVE)
rule per line) and runs them against an input tape.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, &cfg); err != nil {
			return err
		}

		logger, closer, err := cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		app.cfg = cfg
		app.logger = logger
		app.closers = append(app.closers, closer)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeAll()
	},
}

// applyFlags overlays explicitly set flags on cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if f := flags.Lookup("max-steps"); f != nil && f.Changed {
		cfg.MaxSteps, _ = flags.GetInt("max-steps")
	}
	if f := flags.Lookup("blank"); f != nil && f.Changed {
		cfg.Blank, _ = flags.GetString("blank")
	}
	if f := flags.Lookup("store"); f != nil && f.Changed {
		cfg.Store, _ = flags.GetString("store")
	}
	return cfg.Validate()
}

func closeAll() {
	for _, c := range app.closers {
		c.Close()
	}
	app.closers = nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		closeAll()
		var exit *cli.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
}

// addEngineFlags registers the flags shared by commands that run machines.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-steps", 0, "Stop a run after this many steps (0 = unbounded)")
	cmd.Flags().String("blank", "", "Blank symbol, a single character (default NUL)")
	cmd.Flags().String("store", "", "Persist runs: none, memory, file, redis or sqlite")
}
