package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	LogLevel string `default:"info" help:"Log level (debug, info, warn, error)"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Start the chat server (default)"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations and exit"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("jenna"),
		kong.Description("LLM chat server with tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
