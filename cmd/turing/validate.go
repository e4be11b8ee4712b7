package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a machine description",
	Long: `Loads the description and reports suspicious rules: halting states that
are never reached, unreachable states, rules shadowed by an earlier rule and
rules leaving a halting state. Load errors always fail; with --strict any
finding fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		format, _ := cmd.Flags().GetString("output")
		if err := cli.ValidateFormat(format); err != nil {
			return err
		}

		eng := cli.NewEngine(app.cfg, app.logger, nil)
		m, err := eng.LoadFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		report := validator.Validate(m)
		out := cmd.OutOrStdout()
		if format != cli.FormatText {
			if err := cli.WriteValue(out, format, report); err != nil {
				return err
			}
			return report.Err(strict)
		}

		for _, issue := range report.Issues {
			fmt.Fprintln(out, issue)
		}
		if err := report.Err(strict); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(out, "Machine is valid! ✅ (%d states, %d rules)\n", len(m.States()), len(m.Table))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warnings as failures")
	validateCmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
}
