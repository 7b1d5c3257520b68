package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetExitCode tests the exit-code mapping: ExitError carries its code,
// anything else maps to the generic failure code.
func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "usage")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "invalid")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "inner"))))
}

// TestExitError_Unwrap tests that a wrapped ExitError still surfaces through
// errors.As, the path main relies on.
func TestExitError_Unwrap(t *testing.T) {
	inner := errors.New("root cause")
	exitErr := &ExitError{Code: ExitCommandError, Message: "load failed", Err: inner}

	assert.Equal(t, "load failed: root cause", exitErr.Error())
	assert.ErrorIs(t, exitErr, inner)
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", exitErr)))
}

// TestOutputFormatter_TextError tests the plain-text error line.
func TestOutputFormatter_TextError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Error("L001", "file not found: x.forma", nil))
	assert.Equal(t, "Error [L001]: file not found: x.forma\n", buf.String())
}

// TestOutputFormatter_JSONSuccess tests the JSON envelope: status, payload,
// and a parseable trace id.
func TestOutputFormatter_JSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success(map[string]string{"key": "value"}))

	var resp struct {
		Status  string            `json:"status"`
		Data    map[string]string `json:"data"`
		TraceID string            `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "value", resp.Data["key"])
	_, err := uuid.Parse(resp.TraceID)
	assert.NoError(t, err)
}

// TestOutputFormatter_JSONError tests the error envelope.
func TestOutputFormatter_JSONError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Error("E000", "parse failure", nil))

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E000", resp.Error.Code)
	assert.Equal(t, "parse failure", resp.Error.Message)
}

// TestOutputFormatter_VerboseLog tests that verbose logs reach ErrWriter only
// when enabled.
func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut}

	f.VerboseLog("quiet %d", 1)
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("loud %d", 2)
	assert.Equal(t, "loud 2\n", errOut.String())
	assert.Empty(t, out.String())
}
