package main

import (
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file> [input]",
	Short: "Run a machine on an input",
	Long: `Loads the machine description in <file> and runs it on [input].

Exit status is 0 when the machine accepts, 2 when it rejects, 3 when it is
stuck (no rule for the current state and symbol) and 4 when --max-steps is
reached.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{Path: args[0]}
		if len(args) > 1 {
			opts.Input = args[1]
		}
		opts.Format, _ = cmd.Flags().GetString("output")
		opts.Trace, _ = cmd.Flags().GetBool("trace")
		opts.Every, _ = cmd.Flags().GetInt("every")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		if save, _ := cmd.Flags().GetBool("save"); save && app.cfg.Store == config.StoreNone {
			app.cfg.Store = config.StoreFile
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		store, closer, err := cli.NewStore(ctx, app.cfg, app.logger)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, closer)
		eng := cli.NewEngine(app.cfg, app.logger, store)

		if opts.Watch {
			return cli.RunWatch(ctx, eng, opts, cmd.OutOrStdout(), app.logger)
		}
		return cli.Run(ctx, eng, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addEngineFlags(runCmd)

	runCmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	runCmd.Flags().BoolP("trace", "t", false, "Print the tape after every step")
	runCmd.Flags().Int("every", 1, "With --trace, print one line every N steps")
	runCmd.Flags().BoolP("watch", "w", false, "Re-run whenever the description file changes")
	runCmd.Flags().Bool("save", false, "Persist the result (file store unless --store is set)")
}
