// Package orchestrator runs one chat turn end to end: request validation,
// chat resolution, tool discovery, the bounded model/tool loop, and
// persistence of the result.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/shortuuid/v4"
	"github.com/spf13/afero"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/aisdk"
	"github.com/jenna-ai/jenna/src/jennaagent/tools"
	"github.com/jenna-ai/jenna/src/llmclient"
	"github.com/jenna-ai/jenna/src/registry"
	"github.com/jenna-ai/jenna/src/settings"
	"github.com/jenna-ai/jenna/src/storage"
	"github.com/jenna-ai/jenna/src/toolserver"
)

const systemPrompt = "You are a helpful assistant that can answer questions and help with tasks"

// Loop caps per model invocation count.
const (
	maxStepsWithTools = 15
	maxStepsNoTools   = 5
)

// DefaultUserID owns all chats until real accounts exist.
const DefaultUserID = "default-user"

// Service orchestrates chat turns.
type Service struct {
	store          *storage.DB
	connector      *toolserver.Connector
	settingsPath   string
	fs             afero.Fs
	logger         *slog.Logger
	validate       *validator.Validate
	newModelClient func(model registry.Model) (aisdk.ModelClient, error)
}

// Config configures a Service. Zero fields other than Store get defaults.
type Config struct {
	Store        *storage.DB
	Connector    *toolserver.Connector
	SettingsPath string
	FS           afero.Fs
	Logger       *slog.Logger

	// NewModelClient overrides provider dispatch, used by tests.
	NewModelClient func(model registry.Model) (aisdk.ModelClient, error)
}

// NewService creates a turn orchestrator.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:          cfg.Store,
		connector:      cfg.Connector,
		settingsPath:   cfg.SettingsPath,
		fs:             cfg.FS,
		logger:         logger.With("component", "orchestrator"),
		validate:       validator.New(),
		newModelClient: cfg.NewModelClient,
	}
	if s.connector == nil {
		s.connector = toolserver.NewConnector(logger)
	}
	if s.settingsPath == "" {
		s.settingsPath = settings.DefaultPath()
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.newModelClient == nil {
		s.newModelClient = func(model registry.Model) (aisdk.ModelClient, error) {
			return llmclient.ForModel(model, logger)
		}
	}
	return s
}

// TurnResult reports what a turn did.
type TurnResult struct {
	ChatID  string
	Created bool
}

// HandleTurn runs one turn. Events stream to the sink in generation order;
// the returned error is either a *ClientError (request problem) or an
// internal failure. For action=createChat the result carries the new chat ID
// and no events are emitted.
func (s *Service) HandleTurn(ctx context.Context, req *TurnRequest, sink Sink) (*TurnResult, error) {
	model, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	chat, created, err := s.resolveChat(ctx, req)
	if err != nil {
		return nil, err
	}
	result := &TurnResult{ChatID: chat.ID, Created: created}

	if req.Action == ActionCreateChat {
		return result, nil
	}

	if err := s.persistIncoming(ctx, chat.ID, req.Messages); err != nil {
		return nil, fmt.Errorf("failed to persist incoming messages: %w", err)
	}

	client, err := s.newModelClient(model)
	if err != nil {
		return nil, fmt.Errorf("failed to build model client: %w", err)
	}

	toolbox, conns := s.discoverTools(ctx, req.Tools)
	defer toolserver.CloseAll(conns, s.logger)

	assistant, finishReason, err := s.streamModelLoop(ctx, client, toolbox, req.Messages, sink)
	if err != nil {
		return nil, err
	}

	// The answer already reached the client; storing it is best effort and
	// must not turn a delivered reply into a failed turn.
	if err := s.persistOutgoing(ctx, chat.ID, assistant); err != nil {
		s.logger.Error("failed to persist assistant message", "chat_id", chat.ID, "error", err)
	}

	if err := sink.Send(finishEvent(finishReason)); err != nil {
		return nil, err
	}
	return result, nil
}

// validateRequest checks the request shape and resolves the model.
func (s *Service) validateRequest(req *TurnRequest) (registry.Model, error) {
	if err := s.validate.Struct(req); err != nil {
		return registry.Model{}, &ClientError{Err: err}
	}
	model, err := registry.Resolve(req.Model)
	if err != nil {
		return registry.Model{}, clientErrorf("unknown model %q: %w", req.Model, err)
	}
	if req.Action != ActionCreateChat && len(req.Messages) == 0 {
		return registry.Model{}, clientErrorf("messages must not be empty")
	}
	return model, nil
}

// resolveChat reuses the requested chat when it exists, otherwise creates
// one with a title derived from the first user message.
func (s *Service) resolveChat(ctx context.Context, req *TurnRequest) (*storage.Chat, bool, error) {
	if req.ChatID != "" {
		chat, err := storage.GetChatByID(ctx, s.store.DB(), req.ChatID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to look up chat: %w", err)
		}
		if chat != nil {
			return chat, false, nil
		}
	}

	chat := &storage.Chat{
		ID:     req.ChatID,
		UserID: DefaultUserID,
		Title:  deriveTitle(req.Messages),
	}
	if chat.ID == "" {
		chat.ID = shortuuid.New()
	}
	if err := storage.CreateChat(ctx, s.store.DB(), chat); err != nil {
		return nil, false, fmt.Errorf("failed to create chat: %w", err)
	}
	s.logger.Info("chat created", "chat_id", chat.ID, "title", chat.Title)
	return chat, true, nil
}

// persistIncoming stores the new inbound messages: everything positioned
// after the last assistant message in the request. Clients resend full
// history each turn; older entries are already in the store.
func (s *Service) persistIncoming(ctx context.Context, chatID string, messages []RequestMessage) error {
	start := 0
	for i, m := range messages {
		if m.Role == "assistant" {
			start = i + 1
		}
	}

	for _, m := range messages[start:] {
		content, err := json.Marshal(&aisdk.Message{Role: m.Role, Content: m.Text()})
		if err != nil {
			return err
		}
		msg := &storage.Message{ChatID: chatID, Role: m.Role, Content: string(content)}
		if err := storage.CreateMessage(ctx, s.store.DB(), msg); err != nil {
			return err
		}
	}
	return nil
}

// persistOutgoing stores the turn's single assistant message.
func (s *Service) persistOutgoing(ctx context.Context, chatID string, assistant *aisdk.Message) error {
	content, err := json.Marshal(assistant)
	if err != nil {
		return err
	}
	return storage.CreateMessage(ctx, s.store.DB(), &storage.Message{
		ChatID:  chatID,
		Role:    "assistant",
		Content: string(content),
	})
}

// discoverTools assembles the turn's toolbox: built-ins filtered by the
// enable map, then tools from every configured server. Server or settings
// failures are contained; the turn proceeds with whatever was discovered.
func (s *Service) discoverTools(ctx context.Context, enabled map[string]bool) (*agent.Toolbox, []*toolserver.Connection) {
	toolbox := agent.NewToolbox()

	builtin, err := tools.Default(s.fs, enabled)
	if err != nil {
		s.logger.Error("failed to build built-in tools", "error", err)
	}
	for _, t := range builtin {
		if err := toolbox.RegisterTool(t); err != nil {
			s.logger.Warn("failed to register tool", "tool", t.GetName(), "error", err)
		}
	}

	cfg, err := settings.LoadFrom(s.settingsPath)
	if err != nil {
		s.logger.Warn("failed to load settings, skipping tool servers", "error", err)
		return toolbox, nil
	}

	serverTools, conns := s.connector.Discover(ctx, cfg.MCPServers)
	for _, list := range serverTools {
		for _, t := range list {
			if on, ok := enabled[t.GetName()]; ok && !on {
				continue
			}
			toolbox.ReplaceTool(t)
		}
	}
	return toolbox, conns
}

// streamModelLoop drives the bounded model/tool loop and emits streaming
// events. It returns the assembled assistant message and the finish reason.
func (s *Service) streamModelLoop(ctx context.Context, client aisdk.ModelClient, toolbox *agent.Toolbox, messages []RequestMessage, sink Sink) (*aisdk.Message, string, error) {
	maxSteps := maxStepsNoTools
	var chatTools []*aisdk.ChatTool
	if toolbox.Len() > 0 {
		maxSteps = maxStepsWithTools
		chatTools = agent.ToChatTools(toolbox.Tools())
	}

	history := make([]*aisdk.Message, 0, len(messages)+1)
	history = append(history, &aisdk.Message{Role: "system", Content: systemPrompt})
	for i := range messages {
		history = append(history, &aisdk.Message{Role: messages[i].Role, Content: messages[i].Text()})
	}

	var content, reasoning strings.Builder
	var annotations []aisdk.Annotation
	finishReason := "stop"

	for step := 1; ; step++ {
		agg, err := s.streamStep(ctx, client, history, chatTools, sink)
		if err != nil {
			return nil, "", err
		}

		msg := agg.Message()
		history = append(history, msg)
		content.WriteString(msg.Content)
		reasoning.WriteString(msg.Reasoning)
		annotations = append(annotations, msg.Annotations...)

		if len(msg.ToolCalls) == 0 {
			if agg.FinishReason != "" {
				finishReason = agg.FinishReason
			}
			break
		}
		if step >= maxSteps {
			// Cap reached with tool calls still pending. Stop without
			// erroring and surface the partial answer.
			s.logger.Warn("tool loop cap reached", "steps", step)
			finishReason = "max-steps"
			break
		}

		for i := range msg.ToolCalls {
			if err := s.executeToolCall(ctx, toolbox, &msg.ToolCalls[i], &history, sink); err != nil {
				return nil, "", err
			}
		}
	}

	return &aisdk.Message{
		Role:        "assistant",
		Content:     content.String(),
		Reasoning:   reasoning.String(),
		Annotations: annotations,
	}, finishReason, nil
}

// streamStep runs one model invocation, forwarding deltas as events.
func (s *Service) streamStep(ctx context.Context, client aisdk.ModelClient, history []*aisdk.Message, chatTools []*aisdk.ChatTool, sink Sink) (*aisdk.StreamAggregator, error) {
	stream, err := client.CreateChatCompletionStream(ctx, &aisdk.ChatCompletionRequest{
		Messages: history,
		Tools:    chatTools,
	})
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	defer stream.Close()

	agg := aisdk.NewStreamAggregator()
	for {
		chunk, err := stream.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("model stream failed: %w", err)
		}

		if err := emitChunk(chunk, sink); err != nil {
			return nil, err
		}
		agg.AddChunk(chunk)
	}
	return agg, nil
}

// emitChunk forwards a chunk's deltas to the sink in generation order.
func emitChunk(chunk *aisdk.StreamChunk, sink Sink) error {
	for _, choice := range chunk.Choices {
		if choice.Delta == nil {
			continue
		}
		if choice.Delta.Reasoning != "" {
			if err := sink.Send(reasoningDeltaEvent(choice.Delta.Reasoning)); err != nil {
				return err
			}
		}
		if choice.Delta.Content != "" {
			if err := sink.Send(textDeltaEvent(choice.Delta.Content)); err != nil {
				return err
			}
		}
		for _, ann := range choice.Delta.Annotations {
			if ann.URLCitation == nil {
				continue
			}
			if err := sink.Send(sourceEvent(ann.URLCitation.URL, ann.URLCitation.Title)); err != nil {
				return err
			}
		}
	}
	return nil
}

// executeToolCall runs one requested tool, emits its events, and appends the
// result to the history. Tool failures become error payloads the model can
// read; they never abort the turn.
func (s *Service) executeToolCall(ctx context.Context, toolbox *agent.Toolbox, call *aisdk.ToolCall, history *[]*aisdk.Message, sink Sink) error {
	if err := sink.Send(toolCallEvent(call.ID, call.Function.Name, call.Function.Arguments)); err != nil {
		return err
	}

	resp, err := toolbox.ExecuteTool(ctx, call)
	if err != nil {
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		resp = &aisdk.ToolResponse{Type: "error", Content: payload, IsError: true}
	}

	if err := sink.Send(toolResultEvent(call.ID, call.Function.Name, resp.Content, resp.IsError)); err != nil {
		return err
	}

	*history = append(*history, &aisdk.Message{
		Role:       "tool",
		Name:       call.Function.Name,
		ToolCallID: call.ID,
		Content:    string(resp.Content),
	})
	return nil
}
