package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show a readable report of a machine",
	Long: `Prints the machine's states, its rule table and the validation findings
as a markdown report, rendered for the terminal. With --input the report
also includes the outcome of a run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := cli.NewEngine(app.cfg, app.logger, nil)
		m, err := eng.LoadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var result *domain.Result
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			result, _ = eng.Execute(cmd.Context(), m, input)
		}

		markdown := tui.Report(m, validator.Validate(m), result)
		out := cmd.OutOrStdout()
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(out, markdown)
			return nil
		}

		render := tui.NewPlainRenderer()
		if tui.IsTerminal(out) {
			render = tui.NewRenderer()
		}
		rendered, err := render(markdown)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addEngineFlags(inspectCmd)
	inspectCmd.Flags().String("input", "", "Also run the machine on this input")
	inspectCmd.Flags().Bool("raw", false, "Print the markdown source instead of rendering it")
}
