// Package server exposes the orchestrator and conversation store over HTTP.
package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"

	"github.com/jenna-ai/jenna/src/orchestrator"
	"github.com/jenna-ai/jenna/src/settings"
	"github.com/jenna-ai/jenna/src/storage"
	"github.com/jenna-ai/jenna/src/toolserver"
)

// Handler carries the dependencies for all HTTP routes.
type Handler struct {
	service      *orchestrator.Service
	store        *storage.DB
	connector    *toolserver.Connector
	settingsPath string
	fs           afero.Fs
	logger       *slog.Logger
}

// Config configures the HTTP handler.
type Config struct {
	Service      *orchestrator.Service
	Store        *storage.DB
	Connector    *toolserver.Connector
	SettingsPath string
	FS           afero.Fs
	Logger       *slog.Logger
}

// NewHandler creates the route handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		service:      cfg.Service,
		store:        cfg.Store,
		connector:    cfg.Connector,
		settingsPath: cfg.SettingsPath,
		fs:           cfg.FS,
		logger:       logger.With("component", "server"),
	}
	if h.connector == nil {
		h.connector = toolserver.NewConnector(logger)
	}
	if h.settingsPath == "" {
		h.settingsPath = settings.DefaultPath()
	}
	if h.fs == nil {
		h.fs = afero.NewOsFs()
	}
	return h
}

// New builds the echo server with middleware and routes registered.
func New(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	NewHandler(cfg).RegisterRoutes(e)
	return e
}

// RegisterRoutes attaches all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.PostChat)
	e.GET("/api/chat/list", h.ListChats)
	e.GET("/api/chat/:chatId/messages", h.GetChatMessages)
	e.DELETE("/api/chats/:chatId", h.DeleteChat)
	e.GET("/api/tools", h.GetTools)
	e.GET("/api/settings", h.GetSettings)
}
