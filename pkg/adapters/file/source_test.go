package file_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Contract(t *testing.T) {
	tests.LineSourceContractTest(t, func(t *testing.T, content string) ports.LineSource {
		return file.NewSource(strings.NewReader(content))
	})
}

func TestSource_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.tm")
	require.NoError(t, os.WriteFile(path, []byte("q0\nqA\nqR\n(q0,1)->(qA,0,S)\n(q0,0)->(qR,0,S)\n"), 0644))

	src, err := file.Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "simple", src.Name())

	count, err := src.LineCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	n, err := src.LineLength()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	line, err := src.ReadLine(n)
	require.NoError(t, err)
	assert.Equal(t, "q0", line)
}

func TestSource_OpenMissing(t *testing.T) {
	_, err := file.Open(filepath.Join(t.TempDir(), "missing.tm"))
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSource_ClosedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.tm")
	require.NoError(t, os.WriteFile(path, []byte("q0\n"), 0644))

	src, err := file.Open(path)
	require.NoError(t, err)
	require.NoError(t, src.Close())

	_, err = src.LineLength()
	assert.ErrorIs(t, err, domain.ErrIO)
	_, err = src.LineCount()
	assert.ErrorIs(t, err, domain.ErrIO)
}
