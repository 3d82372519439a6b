package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/h2o/internal/cli"
	"github.com/mrlokans/h2o/internal/config"
	"github.com/mrlokans/h2o/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	name := "serve"
	var args []string
	if len(os.Args) >= 2 {
		name = os.Args[1]
		args = os.Args[2:]
	}

	switch name {
	case "-h", "--help", "help":
		printUsage()
		return
	case "version":
		fmt.Printf("h2o %s (%s)\n", Version, Commit)
		return
	}

	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if name == "serve" {
		entrypoint.Run(cfg, Version)
		return
	}

	cmd, ok := newCommand(name, cfg)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newCommand returns the CLI subcommand registered under name.
func newCommand(name string, cfg *config.Config) (command, bool) {
	switch name {
	case "send":
		return cli.NewSendCommand(cfg), true
	case "preview":
		return cli.NewPreviewCommand(cfg), true
	case "settings":
		return cli.NewSettingsCommand(cfg), true
	case "history":
		return cli.NewHistoryCommand(cfg), true
	}
	return nil, false
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve      Start the HTTP API and the auto send scheduler (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  send       Send calibre highlights to Obsidian\n")
	fmt.Fprintf(os.Stderr, "  preview    Print the notes a send would create\n")
	fmt.Fprintf(os.Stderr, "  settings   Show or change preferences\n")
	fmt.Fprintf(os.Stderr, "  history    Show recent send actions\n")
	fmt.Fprintf(os.Stderr, "  version    Print the version\n")
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from the environment and an optional %s file.\n", config.DefaultEnvFile)
	fmt.Fprintf(os.Stderr, "Use '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
