package tool_readfile

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/jennaagent/toolsutil"
)

// Tool name constant
const Name = "readFile"

const readFilePrompt = `Reads a file from the local filesystem.

Usage:
- The path parameter can be an absolute path or a relative path (relative to the current working directory)
- It is okay to request a file that does not exist; an error will be returned`

// ReadFileInput represents the parameters for readFile
type ReadFileInput struct {
	Path string `json:"path" required:"true" description:"The file path to read (absolute or relative to current working directory)"`
}

// ReadFileOutput represents the response from readFile
type ReadFileOutput struct {
	Path    string `json:"path" description:"The file path that was read"`
	Content string `json:"content" description:"The file contents"`
	Size    int64  `json:"size" description:"File size in bytes"`
}

// Tool returns the readFile tool definition using GenericTool
func Tool(fs afero.Fs) (agent.Tool, error) {
	return agent.NewGenericTool(Name, readFilePrompt, makeReadFileHandler(fs))
}

func makeReadFileHandler(fs afero.Fs) func(ctx context.Context, input ReadFileInput) (ReadFileOutput, error) {
	return func(ctx context.Context, input ReadFileInput) (ReadFileOutput, error) {
		if !toolsutil.IsPathSafe(input.Path) {
			toolsutil.GetLogger().Error("unsafe path rejected", "path", input.Path)
			return ReadFileOutput{}, fmt.Errorf("unsafe path: %s", input.Path)
		}

		info, err := fs.Stat(input.Path)
		if err != nil {
			toolsutil.GetLogger().Error("file not found", "path", input.Path, "error", err)
			return ReadFileOutput{}, fmt.Errorf("file not found: %s", input.Path)
		}
		if err := toolsutil.ValidateFileSize(info.Size()); err != nil {
			return ReadFileOutput{}, err
		}

		content, err := afero.ReadFile(fs, input.Path)
		if err != nil {
			toolsutil.GetLogger().Error("failed to read file", "path", input.Path, "error", err)
			return ReadFileOutput{}, fmt.Errorf("failed to read file: %v", err)
		}

		toolsutil.GetLogger().Info("file read", "path", input.Path, "size", len(content))

		return ReadFileOutput{
			Path:    input.Path,
			Content: string(content),
			Size:    int64(len(content)),
		}, nil
	}
}
