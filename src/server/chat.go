package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jenna-ai/jenna/src/orchestrator"
	"github.com/jenna-ai/jenna/src/storage"
)

// PostChat runs one turn.
// POST /api/chat
//
// For action=createChat the response is a single 201 JSON object; otherwise
// the response is a server-sent event stream of typed events.
func (h *Handler) PostChat(c echo.Context) error {
	var req orchestrator.TurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	ctx := c.Request().Context()

	if req.Action == orchestrator.ActionCreateChat {
		result, err := h.service.HandleTurn(ctx, &req, noopSink{})
		if err != nil {
			return h.turnError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"chatId": result.ChatID})
	}

	sink := &sseSink{c: c}
	if _, err := h.service.HandleTurn(ctx, &req, sink); err != nil {
		if !sink.started {
			return h.turnError(c, err)
		}
		// Headers are out; surface the failure as a final error event so the
		// client never sees a silently truncated stream.
		h.logger.Error("turn failed mid-stream", "error", err)
		sink.Send(orchestrator.Event{Type: orchestrator.EventError, Message: err.Error()})
		return nil
	}
	return nil
}

// turnError maps orchestrator failures to status codes before any bytes of
// the stream have been written.
func (h *Handler) turnError(c echo.Context, err error) error {
	if orchestrator.IsClientError(err) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	h.logger.Error("turn failed", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// sseSink encodes orchestrator events as server-sent event frames.
type sseSink struct {
	c       echo.Context
	started bool
}

func (s *sseSink) Send(event orchestrator.Event) error {
	if !s.started {
		header := s.c.Response().Header()
		header.Set(echo.HeaderContentType, "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("Connection", "keep-alive")
		s.c.Response().WriteHeader(http.StatusOK)
		s.started = true
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := fmt.Fprintf(s.c.Response(), "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.c.Response().Flush()
	return nil
}

// noopSink discards events; createChat turns emit none.
type noopSink struct{}

func (noopSink) Send(orchestrator.Event) error { return nil }

// ListChats returns every chat, most recent first.
// GET /api/chat/list
func (h *Handler) ListChats(c echo.Context) error {
	chats, err := storage.ListChatsByUserID(c.Request().Context(), h.store.DB(), orchestrator.DefaultUserID)
	if err != nil {
		h.logger.Error("failed to list chats", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	if chats == nil {
		chats = []storage.Chat{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"chats": chats})
}

// GetChatMessages returns a chat's messages in creation order.
// GET /api/chat/:chatId/messages
func (h *Handler) GetChatMessages(c echo.Context) error {
	chatID := c.Param("chatId")
	ctx := c.Request().Context()

	chat, err := storage.GetChatByID(ctx, h.store.DB(), chatID)
	if err != nil {
		h.logger.Error("failed to look up chat", "chat_id", chatID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	if chat == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "chat not found"})
	}

	messages, err := storage.GetMessagesByChatID(ctx, h.store.DB(), chatID)
	if err != nil {
		h.logger.Error("failed to load messages", "chat_id", chatID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	if messages == nil {
		messages = []storage.Message{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
}

// DeleteChat removes a chat and its messages atomically.
// DELETE /api/chats/:chatId
func (h *Handler) DeleteChat(c echo.Context) error {
	chatID := c.Param("chatId")

	err := storage.DeleteChat(c.Request().Context(), h.store.DB(), chatID)
	if errors.Is(err, storage.ErrChatNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "chat not found"})
	}
	if err != nil {
		h.logger.Error("failed to delete chat", "chat_id", chatID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
