package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with args against fresh buffers and
// returns stdout, stderr, and the execution error.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeModel writes source to a temp .forma file and returns its path.
func writeModel(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model"+ModelExt)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}
