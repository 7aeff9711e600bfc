package tool_runshell

import (
	"context"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenna-ai/jenna/src/aisdk"
)

func execute(t *testing.T, command string) RunShellOutput {
	t.Helper()

	tool, err := Tool()
	require.NoError(t, err)

	argsJSON, err := json.Marshal(map[string]interface{}{"command": command})
	require.NoError(t, err)

	response, err := tool.Execute(context.Background(), &aisdk.ToolCall{
		Function: aisdk.FunctionCall{Arguments: argsJSON},
	})
	require.NoError(t, err)
	require.False(t, response.IsError)

	var output RunShellOutput
	require.NoError(t, json.Unmarshal(response.Content, &output))
	return output
}

func TestRunShellCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	output := execute(t, "echo hello")
	assert.Equal(t, "hello\n", output.Stdout)
	assert.Empty(t, output.Stderr)
	assert.Zero(t, output.ExitCode)
	assert.Empty(t, output.Error)
}

func TestRunShellCapturesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	output := execute(t, "echo oops 1>&2")
	assert.Empty(t, output.Stdout)
	assert.Equal(t, "oops\n", output.Stderr)
}

func TestRunShellNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	// Output captured before the failure must still come back.
	output := execute(t, "echo partial; exit 3")
	assert.Equal(t, "partial\n", output.Stdout)
	assert.Equal(t, 3, output.ExitCode)
	assert.NotEmpty(t, output.Error)
}
