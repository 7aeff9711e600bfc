package tool_writefile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/jennaagent/toolsutil"
)

// Tool name constant
const Name = "writeFile"

const writeFilePrompt = `Writes content to a file, creating it if it does not exist and replacing
it entirely if it does.

Usage:
- The path parameter can be an absolute path or a relative path (relative to the current working directory)
- Parent directories are created as needed`

// WriteFileInput represents the parameters for writeFile
type WriteFileInput struct {
	Path    string `json:"path" required:"true" description:"The file path to write (absolute or relative to current working directory)"`
	Content string `json:"content" required:"true" description:"The full content to write to the file"`
}

// WriteFileOutput represents the response from writeFile
type WriteFileOutput struct {
	Path    string `json:"path" description:"The file path that was written"`
	Size    int64  `json:"size" description:"Number of bytes written"`
	Created bool   `json:"created" description:"Whether the file was newly created"`
}

// Tool returns the writeFile tool definition using GenericTool
func Tool(fs afero.Fs) (agent.Tool, error) {
	return agent.NewGenericTool(Name, writeFilePrompt, makeWriteFileHandler(fs))
}

func makeWriteFileHandler(fs afero.Fs) func(ctx context.Context, input WriteFileInput) (WriteFileOutput, error) {
	return func(ctx context.Context, input WriteFileInput) (WriteFileOutput, error) {
		if !toolsutil.IsPathSafe(input.Path) {
			toolsutil.GetLogger().Error("unsafe path rejected", "path", input.Path)
			return WriteFileOutput{}, fmt.Errorf("unsafe path: %s", input.Path)
		}

		_, statErr := fs.Stat(input.Path)
		created := statErr != nil

		if dir := filepath.Dir(input.Path); dir != "." && dir != "/" {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return WriteFileOutput{}, fmt.Errorf("failed to create parent directory: %v", err)
			}
		}

		if err := afero.WriteFile(fs, input.Path, []byte(input.Content), 0o644); err != nil {
			toolsutil.GetLogger().Error("failed to write file", "path", input.Path, "error", err)
			return WriteFileOutput{}, fmt.Errorf("failed to write file: %v", err)
		}

		toolsutil.GetLogger().Info("file written", "path", input.Path, "size", len(input.Content), "created", created)

		return WriteFileOutput{
			Path:    input.Path,
			Size:    int64(len(input.Content)),
			Created: created,
		}, nil
	}
}
