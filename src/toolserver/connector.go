// Package toolserver connects to external tool servers declared in the user
// settings and exposes their tools through the agent.Tool interface. Servers
// are dialed fresh for every turn and torn down when the turn ends.
package toolserver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jenna-ai/jenna/src/agent"
	"github.com/jenna-ai/jenna/src/settings"
)

const clientName = "jenna"

// mcpClient is the slice of the protocol client the connector needs. The
// tests substitute a fake through the dial hook.
type mcpClient interface {
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// dialFunc opens and initializes a client for one server entry.
type dialFunc func(ctx context.Context, name string, cfg settings.ToolServerConfig) (mcpClient, error)

// Connection is an open link to one tool server. Close is safe to call more
// than once; only the first call reaches the underlying client.
type Connection struct {
	Name   string
	client mcpClient
	once   sync.Once
	err    error
}

// Close tears down the connection.
func (c *Connection) Close() error {
	c.once.Do(func() {
		c.err = c.client.Close()
	})
	return c.err
}

// Connector discovers tools from the configured tool servers.
type Connector struct {
	dial   dialFunc
	logger *slog.Logger
}

// NewConnector creates a connector that dials real servers.
func NewConnector(logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{dial: dialServer, logger: logger}
}

// Discover connects to every configured server and collects its tools,
// grouped by server name. A server that fails to connect, initialize, or
// list is skipped with a warning; one bad entry never takes down the rest.
// The returned connections must be closed by the caller once the turn is
// over.
func (c *Connector) Discover(ctx context.Context, servers map[string]settings.ToolServerConfig) (map[string][]agent.Tool, []*Connection) {
	tools := make(map[string][]agent.Tool)
	var conns []*Connection

	for name, cfg := range servers {
		if err := validateConfig(cfg); err != nil {
			c.logger.Warn("skipping misconfigured tool server", "server", name, "error", err)
			continue
		}

		cl, err := c.dial(ctx, name, cfg)
		if err != nil {
			c.logger.Warn("failed to connect to tool server", "server", name, "error", err)
			continue
		}

		listed, err := cl.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			c.logger.Warn("failed to list tools from server", "server", name, "error", err)
			cl.Close()
			continue
		}

		conn := &Connection{Name: name, client: cl}
		conns = append(conns, conn)

		for _, t := range listed.Tools {
			tool, err := newServerTool(cl, t)
			if err != nil {
				c.logger.Warn("skipping tool with bad schema", "server", name, "tool", t.Name, "error", err)
				continue
			}
			tools[name] = append(tools[name], tool)
		}
		c.logger.Debug("tool server connected", "server", name, "tools", len(listed.Tools))
	}

	return tools, conns
}

// CloseAll closes every connection, logging failures instead of returning
// them so teardown always reaches the last server.
func CloseAll(conns []*Connection, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, conn := range conns {
		if err := conn.Close(); err != nil {
			logger.Warn("failed to close tool server connection", "server", conn.Name, "error", err)
		}
	}
}

func validateConfig(cfg settings.ToolServerConfig) error {
	switch cfg.TransportType {
	case settings.TransportStdio:
		if cfg.Command == "" {
			return fmt.Errorf("stdio transport requires a command")
		}
	case settings.TransportHTTP, settings.TransportSSE:
		if cfg.URL == "" {
			return fmt.Errorf("%s transport requires a url", cfg.TransportType)
		}
	default:
		return fmt.Errorf("unknown transport type %q", cfg.TransportType)
	}
	return nil
}

// dialServer opens the transport named by the config, starts the client, and
// runs the protocol handshake.
func dialServer(ctx context.Context, name string, cfg settings.ToolServerConfig) (mcpClient, error) {
	var (
		cl  *client.Client
		err error
	)

	switch cfg.TransportType {
	case settings.TransportStdio:
		env := make([]string, 0, len(cfg.Env))
		for k, v := range cfg.Env {
			env = append(env, k+"="+v)
		}
		cl = client.NewClient(transport.NewStdio(cfg.Command, env, cfg.Args...))
	case settings.TransportHTTP:
		t, err := transport.NewStreamableHTTP(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create http transport: %w", err)
		}
		cl = client.NewClient(t)
	case settings.TransportSSE:
		t, err := transport.NewSSE(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create sse transport: %w", err)
		}
		cl = client.NewClient(t)
	default:
		return nil, fmt.Errorf("unknown transport type %q", cfg.TransportType)
	}

	if err = cl.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: clientName, Version: "1.0.0"}
	if _, err = cl.Initialize(ctx, initReq); err != nil {
		cl.Close()
		return nil, fmt.Errorf("handshake with server %s failed: %w", name, err)
	}

	return cl, nil
}
