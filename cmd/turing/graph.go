package main

import (
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the machine as a state diagram",
	Long: `Outputs a Mermaid diagram (stateDiagram-v2) of the machine. With --input,
the machine is run first and the states it visited are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := cli.NewEngine(app.cfg, app.logger, nil)
		m, err := eng.LoadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("input") {
			input, _ := cmd.Flags().GetString("input")
			overlay, err = visit(cmd, eng, m, input)
			if err != nil {
				return err
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m, overlay))
		return nil
	},
}

// visit runs m and records the states it entered.
func visit(cmd *cobra.Command, eng *turing.Engine, m *domain.Machine, input string) (*graph.GraphOverlay, error) {
	overlay := &graph.GraphOverlay{VisitedStates: []string{m.Initial}}
	result, err := eng.Trace(cmd.Context(), m, input, func(step int, tr domain.Transition, snap tape.Snapshot) {
		overlay.VisitedStates = append(overlay.VisitedStates, tr.To)
	})
	if result == nil {
		return nil, err
	}
	// Stuck or bounded runs still have a meaningful path.
	overlay.CurrentState = result.State
	return overlay, nil
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addEngineFlags(graphCmd)
	graphCmd.Flags().String("input", "", "Run the machine on this input and highlight the visited states")
}
