package tool_editfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/jennaagent/toolsutil"
)

// Tool name constant
const Name = "editFile"

const editFilePrompt = `Replaces the first occurrence of a string in a file.

Usage:
- oldString must appear in the file exactly as given, including whitespace
- Only the first occurrence is replaced; repeat the call to replace more
- An error is returned when oldString is not found, and the file is left unchanged`

// EditFileInput represents the parameters for editFile
type EditFileInput struct {
	Path      string `json:"path" required:"true" description:"The file path to edit (absolute or relative to current working directory)"`
	OldString string `json:"oldString" required:"true" description:"The exact text to search for"`
	NewString string `json:"newString" required:"true" description:"The text to replace it with"`
}

// EditFileOutput represents the response from editFile
type EditFileOutput struct {
	Path string `json:"path" description:"The file path that was edited"`
	Size int64  `json:"size" description:"File size in bytes after the edit"`
}

// Tool returns the editFile tool definition using GenericTool
func Tool(fs afero.Fs) (agent.Tool, error) {
	return agent.NewGenericTool(Name, editFilePrompt, makeEditFileHandler(fs))
}

func makeEditFileHandler(fs afero.Fs) func(ctx context.Context, input EditFileInput) (EditFileOutput, error) {
	return func(ctx context.Context, input EditFileInput) (EditFileOutput, error) {
		if !toolsutil.IsPathSafe(input.Path) {
			toolsutil.GetLogger().Error("unsafe path rejected", "path", input.Path)
			return EditFileOutput{}, fmt.Errorf("unsafe path: %s", input.Path)
		}
		if input.OldString == "" {
			return EditFileOutput{}, fmt.Errorf("oldString must not be empty")
		}

		content, err := afero.ReadFile(fs, input.Path)
		if err != nil {
			toolsutil.GetLogger().Error("failed to read file", "path", input.Path, "error", err)
			return EditFileOutput{}, fmt.Errorf("failed to read file: %v", err)
		}

		text := string(content)
		if !strings.Contains(text, input.OldString) {
			return EditFileOutput{}, fmt.Errorf("oldString not found in %s", input.Path)
		}

		// First occurrence only.
		edited := strings.Replace(text, input.OldString, input.NewString, 1)

		if err := afero.WriteFile(fs, input.Path, []byte(edited), 0o644); err != nil {
			toolsutil.GetLogger().Error("failed to write file", "path", input.Path, "error", err)
			return EditFileOutput{}, fmt.Errorf("failed to write file: %v", err)
		}

		toolsutil.GetLogger().Info("file edited", "path", input.Path, "size", len(edited))

		return EditFileOutput{
			Path: input.Path,
			Size: int64(len(edited)),
		}, nil
	}
}
