package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// Turn actions.
const (
	ActionSendMessage = "sendMessage"
	ActionCreateChat  = "createChat"
)

const defaultChatTitle = "New Chat"

// maxTitleLen bounds derived chat titles.
const maxTitleLen = 100

// TurnRequest is one orchestrator invocation.
type TurnRequest struct {
	Messages []RequestMessage `json:"messages"`
	Model    string           `json:"model" validate:"required"`
	ChatID   string           `json:"chatId,omitempty"`
	Action   string           `json:"action,omitempty" validate:"omitempty,oneof=sendMessage createChat"`
	// Tools filters the active tool set by name. Missing means enabled,
	// false removes the tool entirely.
	Tools map[string]bool `json:"tools,omitempty"`
}

// RequestMessage is one inbound message. Clients send either structured
// parts or a plain content string.
type RequestMessage struct {
	Role    string        `json:"role" validate:"required"`
	Parts   []MessagePart `json:"parts,omitempty"`
	Content string        `json:"content,omitempty"`
}

// MessagePart is a fragment of a structured message.
type MessagePart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Text returns the message's plain text, joining text parts in order.
func (m *RequestMessage) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Type == "text" {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// deriveTitle builds a chat title from the first user message.
func deriveTitle(messages []RequestMessage) string {
	for _, m := range messages {
		if m.Role != "user" {
			continue
		}
		text := strings.TrimSpace(m.Text())
		if text == "" {
			break
		}
		runes := []rune(text)
		if len(runes) > maxTitleLen {
			return string(runes[:maxTitleLen])
		}
		return text
	}
	return defaultChatTitle
}

// ClientError marks a failure caused by the request itself, mapped to a 400
// at the HTTP boundary.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string { return e.Err.Error() }

func (e *ClientError) Unwrap() error { return e.Err }

func clientErrorf(format string, args ...interface{}) error {
	return &ClientError{Err: fmt.Errorf(format, args...)}
}

// IsClientError reports whether err originated from request validation.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}
