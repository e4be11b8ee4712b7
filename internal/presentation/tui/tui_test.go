package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *domain.Machine {
	return &domain.Machine{
		Name:    "flip",
		Initial: "q0", Accept: "qA", Reject: "qR",
		Table: domain.Table{
			{From: "q0", Read: '1', To: "q0", Write: '0', Dir: domain.Right},
			{From: "q0", Read: 0, To: "qA", Write: 0, Dir: domain.Stay},
		},
	}
}

func TestReport(t *testing.T) {
	m := sample()
	md := Report(m, validator.Validate(m), &domain.Result{Input: "11", Status: domain.StatusAccepted, State: "qA", Steps: 3, Output: "00"})

	assert.True(t, strings.HasPrefix(md, "# flip\n"))
	assert.Contains(t, md, "| initial | `q0` |")
	assert.Contains(t, md, "| 4 | `q0` | `1` | `q0` | `0` | D |")
	assert.Contains(t, md, "| 5 | `q0` | blank | `qA` | blank | S |")
	assert.Contains(t, md, "unreachable-halting-state")
	assert.Contains(t, md, "- status: **accepted** in state `qA`")
}

func TestReport_Empty(t *testing.T) {
	m := &domain.Machine{Initial: "q0", Accept: "qA", Reject: "qR"}
	md := Report(m, validator.Report{}, nil)

	assert.True(t, strings.HasPrefix(md, "# machine\n"))
	assert.Contains(t, md, "No rules")
	assert.Contains(t, md, "No issues found.")
	assert.NotContains(t, md, "## Run")
}

func TestPlainRenderer(t *testing.T) {
	out, err := NewPlainRenderer()(Report(sample(), validator.Report{}, nil))
	require.NoError(t, err)
	assert.Contains(t, out, "flip")
	assert.NotContains(t, out, "\x1b[")
}

func TestTapeRenderer(t *testing.T) {
	snap := tape.Snapshot{Cells: []byte("_10_"), Head: 1, Blank: '_'}

	plain := TapeRenderer(termenv.Ascii)(snap)
	assert.Equal(t, turing.PlainTape(snap), plain)

	colored := TapeRenderer(termenv.ANSI256)(snap)
	assert.Contains(t, colored, "\x1b[")
	assert.NotContains(t, colored, "[1]")
	assert.True(t, strings.HasSuffix(colored, "0"), "trailing blanks are trimmed")
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, termenv.Ascii, Profile(&buf))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, termenv.Ascii)
	assert.Contains(t, buf.String(), "|___/")
}
