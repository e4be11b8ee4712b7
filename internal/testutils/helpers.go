package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Flip turns every leading 1 into 0 and accepts on the first blank ('_'),
// rejecting on a 0.
const Flip = "q0\nqA\nqR\n(q0,1)->(q0,0,D)\n(q0,_)->(qA,_,S)\n(q0,0)->(qR,0,S)\n"

// WriteMachine writes a description file named name.tm in a temporary
// directory and returns its absolute path.
// It fails the test immediately on error.
func WriteMachine(t *testing.T, name string, lines ...string) string {
	t.Helper()

	content := strings.Join(lines, "\n")
	if len(lines) > 1 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	path, err := filepath.Abs(filepath.Join(t.TempDir(), name+".tm"))
	require.NoError(t, err, "Failed to get absolute path for temp dir")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write machine")
	return path
}
