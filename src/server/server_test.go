package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenna-ai/jenna/src/aisdk"
	"github.com/jenna-ai/jenna/src/orchestrator"
	"github.com/jenna-ai/jenna/src/registry"
	"github.com/jenna-ai/jenna/src/storage"
)

// fakeModel streams a fixed reply.
type fakeModel struct {
	chunks []*aisdk.StreamChunk
}

type fakeStream struct {
	chunks []*aisdk.StreamChunk
	pos    int
}

func (s *fakeStream) Read() (*aisdk.StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *fakeStream) Close() error { return nil }

func (m *fakeModel) ModelID() string { return "fake" }

func (m *fakeModel) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	return nil, errors.New("not used")
}

func (m *fakeModel) CreateChatCompletionStream(ctx context.Context, req *aisdk.ChatCompletionRequest) (aisdk.StreamInterface, error) {
	return &fakeStream{chunks: m.chunks}, nil
}

type testEnv struct {
	e     *echo.Echo
	store *storage.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	settingsPath := filepath.Join(dir, "settings.json")
	fs := afero.NewMemMapFs()

	model := &fakeModel{chunks: []*aisdk.StreamChunk{
		{Choices: []aisdk.Choice{{Delta: &aisdk.Message{Content: "streamed reply"}}}},
		{Choices: []aisdk.Choice{{Delta: &aisdk.Message{}, FinishReason: "stop"}}},
	}}

	svc := orchestrator.NewService(orchestrator.Config{
		Store:        store,
		SettingsPath: settingsPath,
		FS:           fs,
		Logger:       logger,
		NewModelClient: func(m registry.Model) (aisdk.ModelClient, error) {
			return model, nil
		},
	})

	e := echo.New()
	NewHandler(Config{
		Service:      svc,
		Store:        store,
		SettingsPath: settingsPath,
		FS:           fs,
		Logger:       logger,
	}).RegisterRoutes(e)

	return &testEnv{e: e, store: store}
}

func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func TestPostChatCreateChatAction(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/chat",
		`{"model": "gpt-4o", "action": "createChat", "messages": [{"role": "user", "content": "first question"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["chatId"])
}

func TestPostChatStreamsEvents(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/chat",
		`{"model": "gpt-4o", "messages": [{"role": "user", "content": "hi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/event-stream")

	body := rec.Body.String()
	assert.Contains(t, body, `"type":"text-delta"`)
	assert.Contains(t, body, "streamed reply")
	assert.Contains(t, body, `"type":"finish"`)
}

func TestPostChatUnknownModel(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/chat",
		`{"model": "claude-3-opus", "messages": [{"role": "user", "content": "hi"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostChatEmptyMessages(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/chat", `{"model": "gpt-4o", "messages": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListChats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := env.do(http.MethodGet, "/api/chat/list", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"chats": []}`, rec.Body.String())

	require.NoError(t, storage.CreateChat(ctx, env.store.DB(),
		&storage.Chat{UserID: orchestrator.DefaultUserID, Title: "one"}))

	rec = env.do(http.MethodGet, "/api/chat/list", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Chats []storage.Chat `json:"chats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Chats, 1)
	assert.Equal(t, "one", body.Chats[0].Title)
}

func TestGetChatMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := env.do(http.MethodGet, "/api/chat/missing/messages", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	chat := &storage.Chat{UserID: orchestrator.DefaultUserID, Title: "t"}
	require.NoError(t, storage.CreateChat(ctx, env.store.DB(), chat))
	require.NoError(t, storage.CreateMessage(ctx, env.store.DB(),
		&storage.Message{ChatID: chat.ID, Role: "user", Content: `{"role":"user","content":"hi"}`}))

	rec = env.do(http.MethodGet, "/api/chat/"+chat.ID+"/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Messages []storage.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)
}

func TestDeleteChat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chat := &storage.Chat{UserID: orchestrator.DefaultUserID, Title: "t"}
	require.NoError(t, storage.CreateChat(ctx, env.store.DB(), chat))
	require.NoError(t, storage.CreateMessage(ctx, env.store.DB(),
		&storage.Message{ChatID: chat.ID, Role: "user", Content: "x"}))

	rec := env.do(http.MethodDelete, "/api/chats/"+chat.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/api/chats/"+chat.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTools(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Builtin []ToolDescriptor            `json:"builtin"`
		Servers map[string][]ToolDescriptor `json:"servers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Builtin, 6)
	assert.Empty(t, body.Servers)

	names := make([]string, 0, len(body.Builtin))
	for _, d := range body.Builtin {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "readFile")
	assert.Contains(t, names, "webSearch")
	assert.Contains(t, names, "runShellCommand")
}

func TestGetSettings(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}
