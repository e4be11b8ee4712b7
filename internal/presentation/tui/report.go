package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
)

// Report builds the markdown summary shown by `turing inspect`.
// result is optional.
func Report(m *domain.Machine, report validator.Report, result *domain.Result) string {
	var sb strings.Builder

	name := m.Name
	if name == "" {
		name = "machine"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	sb.WriteString("| Role | State |\n|---|---|\n")
	fmt.Fprintf(&sb, "| initial | `%s` |\n", m.Initial)
	fmt.Fprintf(&sb, "| accept | `%s` |\n", m.Accept)
	fmt.Fprintf(&sb, "| reject | `%s` |\n\n", m.Reject)
	fmt.Fprintf(&sb, "%d states, %d rules.\n\n", len(m.States()), len(m.Table))

	sb.WriteString("## Rules\n\n")
	if len(m.Table) == 0 {
		sb.WriteString("_No rules: every non-halting configuration is stuck._\n\n")
	} else {
		sb.WriteString("| Line | From | Read | To | Write | Move |\n|---|---|---|---|---|---|\n")
		for i, tr := range m.Table {
			fmt.Fprintf(&sb, "| %d | `%s` | %s | `%s` | %s | %s |\n",
				domain.HeaderLines+i+1, tr.From, cell(tr.Read), tr.To, cell(tr.Write), tr.Dir)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Checks\n\n")
	if len(report.Issues) == 0 {
		sb.WriteString("No issues found.\n\n")
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(&sb, "- **%s** %s\n", issue.Severity, issue.String())
	}
	if len(report.Issues) > 0 {
		sb.WriteString("\n")
	}

	if result != nil {
		sb.WriteString("## Run\n\n")
		fmt.Fprintf(&sb, "- input: `%s`\n", result.Input)
		fmt.Fprintf(&sb, "- status: **%s** in state `%s`\n", result.Status, result.State)
		fmt.Fprintf(&sb, "- steps: %d\n", result.Steps)
		fmt.Fprintf(&sb, "- output: `%s`\n", result.Output)
		if result.Error != "" {
			fmt.Fprintf(&sb, "- error: %s\n", result.Error)
		}
	}
	return sb.String()
}

func cell(b byte) string {
	switch b {
	case 0:
		return "blank"
	case '|':
		return "`\\|`"
	case '`':
		return "``` ` ```"
	}
	return "`" + string(b) + "`"
}
