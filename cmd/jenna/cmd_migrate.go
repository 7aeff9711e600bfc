package main

import (
	"fmt"
	"log/slog"
)

// MigrateCmd applies pending database migrations and exits.
type MigrateCmd struct {
	DBPath string `name:"db-path" help:"SQLite database path (defaults to the XDG state dir)"`
}

func (cmd *MigrateCmd) Run(cli *CLI) error {
	logger := createLogger(cli.LogLevel)
	slog.SetDefault(logger)

	store, err := openStore(cmd.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Println("migrations applied")
	return nil
}
