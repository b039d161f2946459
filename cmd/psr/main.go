package main

import (
	"errors"
	"fmt"
	"os"

	"psr/internal/cli/commands"
	"psr/internal/config"
)

var version = "dev"

func main() {
	// Create initial config with defaults; flags and files are applied
	// once cobra has parsed the command line
	cfg := config.New()

	deps := commands.NewDeps(cfg, os.Stdout, os.Stderr)
	rootCmd := commands.NewRootCommand(deps, version)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrScenarioFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
