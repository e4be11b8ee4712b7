package memory_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Contract(t *testing.T) {
	tests.LineSourceContractTest(t, func(t *testing.T, content string) ports.LineSource {
		return memory.NewSource(content)
	})
}

func TestNewFromLines(t *testing.T) {
	src := memory.NewFromLines("q0", "qA", "qR")

	count, err := src.LineCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNewFromMachine(t *testing.T) {
	m := &domain.Machine{
		Initial: "q0",
		Accept:  "qA",
		Reject:  "qR",
		Table: domain.Table{
			{From: "q0", Read: '1', To: "qA", Write: '0', Dir: domain.Stay},
		},
	}
	src := memory.NewFromMachine(m)

	count, err := src.LineCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	var lines []string
	for i := 0; i < count; i++ {
		n, err := src.LineLength()
		require.NoError(t, err)
		line, err := src.ReadLine(n)
		require.NoError(t, err)
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"q0", "qA", "qR", "(q0,1)->(qA,0,S)"}, lines)
}
