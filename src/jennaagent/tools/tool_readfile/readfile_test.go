package tool_readfile

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenna-ai/jenna/src/aisdk"
)

func TestReadFileTool(t *testing.T) {
	tests := []struct {
		name          string
		setupFS       func(afero.Fs) error
		args          map[string]interface{}
		expectedError bool
		checkContent  func(t *testing.T, content string)
	}{
		{
			name: "read simple text file",
			setupFS: func(fs afero.Fs) error {
				return afero.WriteFile(fs, "/test.txt", []byte("Hello, World!"), 0644)
			},
			args:          map[string]interface{}{"path": "/test.txt"},
			expectedError: false,
			checkContent: func(t *testing.T, content string) {
				assert.Equal(t, "Hello, World!", content)
			},
		},
		{
			name:          "read non-existent file",
			args:          map[string]interface{}{"path": "/nonexistent.txt"},
			expectedError: true,
		},
		{
			name:          "read file with unsafe path",
			args:          map[string]interface{}{"path": "../../../etc/passwd"},
			expectedError: true,
		},
		{
			name: "read empty file",
			setupFS: func(fs afero.Fs) error {
				return afero.WriteFile(fs, "/empty.txt", []byte(""), 0644)
			},
			args:          map[string]interface{}{"path": "/empty.txt"},
			expectedError: false,
			checkContent: func(t *testing.T, content string) {
				assert.Equal(t, "", content)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.setupFS != nil {
				require.NoError(t, tt.setupFS(fs))
			}

			tool, err := Tool(fs)
			require.NoError(t, err)

			argsJSON, err := json.Marshal(tt.args)
			require.NoError(t, err)

			response, err := tool.Execute(context.Background(), &aisdk.ToolCall{
				Function: aisdk.FunctionCall{Arguments: argsJSON},
			})
			require.NoError(t, err)

			if tt.expectedError {
				assert.True(t, response.IsError)
				return
			}
			require.False(t, response.IsError)

			var output ReadFileOutput
			require.NoError(t, json.Unmarshal(response.Content, &output))
			if tt.checkContent != nil {
				tt.checkContent(t, output.Content)
			}
		})
	}
}
