package tool_runshell

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/jennaagent/toolsutil"
)

// Tool name constant
const Name = "runShellCommand"

const runShellPrompt = `Executes a shell command and returns its stdout and stderr.

Usage notes:
  - The command argument is required and is run with sh -c
  - Both stdout and stderr are always returned, even when the command fails
  - A non-zero exit status is reported as an error alongside the captured output
  - Commands time out after 2 minutes`

const defaultTimeout = 2 * time.Minute

// RunShellInput represents the parameters for runShellCommand
type RunShellInput struct {
	Command string `json:"command" required:"true" description:"The shell command to execute"`
}

// RunShellOutput represents the response from runShellCommand
type RunShellOutput struct {
	Stdout   string `json:"stdout" description:"Captured standard output"`
	Stderr   string `json:"stderr" description:"Captured standard error"`
	ExitCode int    `json:"exitCode" description:"The command's exit status"`
	Error    string `json:"error,omitempty" description:"Set when the command failed"`
}

// Tool returns the runShellCommand tool definition using GenericTool
func Tool() (agent.Tool, error) {
	return agent.NewGenericTool(Name, runShellPrompt, runShellHandler)
}

// runShellHandler executes the command. Failures are reported in the output
// struct so the model can read the captured streams and react; only the
// handler machinery itself returns a Go error.
func runShellHandler(ctx context.Context, input RunShellInput) (RunShellOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	toolsutil.GetLogger().Info("running shell command", "command", input.Command)

	cmd := exec.CommandContext(ctx, "sh", "-c", input.Command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	out := RunShellOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		out.Error = err.Error()
		if exitErr, ok := err.(*exec.ExitError); ok {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
		}
		toolsutil.GetLogger().Warn("shell command failed", "command", input.Command, "error", err)
	}

	return out, nil
}
