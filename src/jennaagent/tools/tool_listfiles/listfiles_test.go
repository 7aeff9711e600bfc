package tool_listfiles

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenna-ai/jenna/src/aisdk"
)

func execute(t *testing.T, fs afero.Fs, args map[string]interface{}) *aisdk.ToolResponse {
	t.Helper()

	tool, err := Tool(fs)
	require.NoError(t, err)

	argsJSON, err := json.Marshal(args)
	require.NoError(t, err)

	response, err := tool.Execute(context.Background(), &aisdk.ToolCall{
		Function: aisdk.FunctionCall{Arguments: argsJSON},
	})
	require.NoError(t, err)
	return response
}

func TestListFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/sub", 0755))
	require.NoError(t, afero.WriteFile(fs, "/work/b.txt", []byte("bb"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/work/a.txt", []byte("a"), 0644))

	response := execute(t, fs, map[string]interface{}{"path": "/work"})
	require.False(t, response.IsError)

	var output ListFilesOutput
	require.NoError(t, json.Unmarshal(response.Content, &output))
	require.Len(t, output.Entries, 3)

	// Sorted by name.
	assert.Equal(t, "a.txt", output.Entries[0].Name)
	assert.Equal(t, "b.txt", output.Entries[1].Name)
	assert.Equal(t, "sub", output.Entries[2].Name)
	assert.False(t, output.Entries[0].IsDirectory)
	assert.True(t, output.Entries[2].IsDirectory)
}

func TestListFilesMissingDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()

	response := execute(t, fs, map[string]interface{}{"path": "/nope"})
	assert.True(t, response.IsError)
}

func TestListFilesDefaultsToCwd(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "x.txt", []byte("x"), 0644))

	response := execute(t, fs, map[string]interface{}{})
	require.False(t, response.IsError)

	var output ListFilesOutput
	require.NoError(t, json.Unmarshal(response.Content, &output))
	assert.Equal(t, ".", output.Path)
}
