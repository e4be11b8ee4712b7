package main

import (
	"time"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug <file> [input]",
	Short: "Step through a run interactively",
	Long: `Opens a terminal debugger on the machine in <file> running on [input].
Press n or space to apply one transition, p to play or pause, r to start
over and q to quit. Exit status follows the run command.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.DebugOptions{Path: args[0]}
		if len(args) > 1 {
			opts.Input = args[1]
		}
		opts.Delay, _ = cmd.Flags().GetDuration("delay")

		eng := cli.NewEngine(app.cfg, app.logger, nil)
		return cli.Debug(cmd.Context(), eng, app.cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	addEngineFlags(debugCmd)
	debugCmd.Flags().Duration("delay", 200*time.Millisecond, "Pause between steps while playing")
}
