package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/jennaagent/tools"
	"github.com/jenna-ai/jenna/src/settings"
	"github.com/jenna-ai/jenna/src/toolserver"
)

// ToolDescriptor is one catalog entry.
type ToolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetTools returns the tool catalog: the built-ins plus whatever the
// configured tool servers expose right now. Server connections are opened
// for this request only and closed before returning.
// GET /api/tools
func (h *Handler) GetTools(c echo.Context) error {
	ctx := c.Request().Context()

	builtin, err := tools.Default(h.fs, nil)
	if err != nil {
		h.logger.Error("failed to build built-in tools", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	servers := map[string][]ToolDescriptor{}
	cfg, err := settings.LoadFrom(h.settingsPath)
	if err != nil {
		h.logger.Warn("failed to load settings, omitting tool servers", "error", err)
	} else {
		discovered, conns := h.connector.Discover(ctx, cfg.MCPServers)
		defer toolserver.CloseAll(conns, h.logger)
		for name, list := range discovered {
			servers[name] = describeTools(list)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"builtin": describeTools(builtin),
		"servers": servers,
	})
}

// GetSettings returns the settings document as stored.
// GET /api/settings
func (h *Handler) GetSettings(c echo.Context) error {
	cfg, err := settings.LoadFrom(h.settingsPath)
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, cfg)
}

func describeTools(list []agent.Tool) []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(list))
	for _, t := range list {
		out = append(out, ToolDescriptor{
			Name:        t.GetName(),
			Description: t.GetDescription(),
		})
	}
	return out
}
