package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFingerprintCommand_TextOutput tests that text mode prints a 64-digit
// hex fingerprint and that repeated runs agree.
func TestFingerprintCommand_TextOutput(t *testing.T) {
	path := writeModel(t, `
		(model Zoo v1.0 "Zoo model")
		(shape Bird name: string)
	`)
	first, _, err := runCommand(t, "fingerprint", path)
	require.NoError(t, err)

	fp := strings.TrimSpace(first)
	assert.Regexp(t, `^[0-9a-f]{64}$`, fp)

	second, _, err := runCommand(t, "fingerprint", path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestFingerprintCommand_WhitespaceInsensitive tests that formatting-only
// differences between two sources do not change the fingerprint.
func TestFingerprintCommand_WhitespaceInsensitive(t *testing.T) {
	compact := writeModel(t, `(model Zoo v1.0 "Zoo model")(shape Bird name: string)`)
	spread := writeModel(t, `
		(model Zoo v1.0 "Zoo model")

		/* layout only */
		(shape Bird
			name: string)
	`)
	a, _, err := runCommand(t, "fingerprint", compact)
	require.NoError(t, err)
	b, _, err := runCommand(t, "fingerprint", spread)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestFingerprintCommand_JSONOutput tests the JSON envelope.
func TestFingerprintCommand_JSONOutput(t *testing.T) {
	path := writeModel(t, `
		(model Zoo v1.0 "Zoo model")
		(shape Bird name: string)
	`)
	stdout, _, err := runCommand(t, "--format", "json", "fingerprint", path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Model struct {
				Name string `json:"name"`
			} `json:"model"`
			Fingerprint string `json:"fingerprint"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Zoo", resp.Data.Model.Name)
	assert.Regexp(t, `^[0-9a-f]{64}$`, resp.Data.Fingerprint)
}
