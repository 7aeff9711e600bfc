package tool_listfiles

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/afero"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/jennaagent/toolsutil"
)

// Tool name constant
const Name = "listFiles"

const listFilesPrompt = `Lists the files and directories at a given path.

Usage:
- The path parameter can be an absolute path or a relative path (relative to the current working directory)
- If path is omitted the current working directory is listed
- Directories are marked with isDirectory: true`

// ListFilesInput represents the parameters for listFiles
type ListFilesInput struct {
	Path string `json:"path,omitempty" description:"The directory to list (defaults to the current working directory)"`
}

// FileEntry is one directory entry in the listing
type FileEntry struct {
	Name        string `json:"name" description:"Entry name"`
	IsDirectory bool   `json:"isDirectory" description:"Whether the entry is a directory"`
	Size        int64  `json:"size" description:"File size in bytes (0 for directories)"`
}

// ListFilesOutput represents the response from listFiles
type ListFilesOutput struct {
	Path    string      `json:"path" description:"The directory that was listed"`
	Entries []FileEntry `json:"entries" description:"The directory entries, sorted by name"`
}

// Tool returns the listFiles tool definition using GenericTool
func Tool(fs afero.Fs) (agent.Tool, error) {
	return agent.NewGenericTool(Name, listFilesPrompt, makeListFilesHandler(fs))
}

func makeListFilesHandler(fs afero.Fs) func(ctx context.Context, input ListFilesInput) (ListFilesOutput, error) {
	return func(ctx context.Context, input ListFilesInput) (ListFilesOutput, error) {
		path := input.Path
		if path == "" {
			path = "."
		}

		if !toolsutil.IsPathSafe(path) {
			toolsutil.GetLogger().Error("unsafe path rejected", "path", path)
			return ListFilesOutput{}, fmt.Errorf("unsafe path: %s", path)
		}

		infos, err := afero.ReadDir(fs, path)
		if err != nil {
			toolsutil.GetLogger().Error("failed to list directory", "path", path, "error", err)
			return ListFilesOutput{}, fmt.Errorf("failed to list directory: %v", err)
		}

		entries := make([]FileEntry, 0, len(infos))
		for _, info := range infos {
			size := info.Size()
			if info.IsDir() {
				size = 0
			}
			entries = append(entries, FileEntry{
				Name:        info.Name(),
				IsDirectory: info.IsDir(),
				Size:        size,
			})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

		return ListFilesOutput{Path: path, Entries: entries}, nil
	}
}
