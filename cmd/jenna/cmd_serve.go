package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adrg/xdg"

	"github.com/jenna-ai/jenna/src/orchestrator"
	"github.com/jenna-ai/jenna/src/server"
	"github.com/jenna-ai/jenna/src/settings"
	"github.com/jenna-ai/jenna/src/storage"
	"github.com/jenna-ai/jenna/src/toolserver"
)

// ServeCmd starts the HTTP server.
type ServeCmd struct {
	Addr     string `default:":8080" help:"Listen address"`
	DBPath   string `name:"db-path" help:"SQLite database path (defaults to the XDG state dir)"`
	Settings string `help:"Settings file path (defaults to the XDG config dir)"`
}

func (cmd *ServeCmd) Run(cli *CLI) error {
	logger := createLogger(cli.LogLevel)
	slog.SetDefault(logger)

	store, err := openStore(cmd.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	settingsPath := cmd.Settings
	if settingsPath == "" {
		settingsPath = settings.DefaultPath()
	}

	connector := toolserver.NewConnector(logger)
	svc := orchestrator.NewService(orchestrator.Config{
		Store:        store,
		Connector:    connector,
		SettingsPath: settingsPath,
		Logger:       logger,
	})

	e := server.New(server.Config{
		Service:      svc,
		Store:        store,
		Connector:    connector,
		SettingsPath: settingsPath,
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cmd.Addr)
		errCh <- e.Start(cmd.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}
	return nil
}

// openStore opens the database, creating its directory when the default
// location is used.
func openStore(path string) (*storage.DB, error) {
	if path == "" {
		path = filepath.Join(xdg.StateHome, "jenna", "chats.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	return store, nil
}
