package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"psr/internal/server"
)

// ServeCommand serves the report tree over HTTP
type ServeCommand struct {
	deps *Deps
}

// NewServeCommand creates a new ServeCommand
func NewServeCommand(deps *Deps) *ServeCommand {
	return &ServeCommand{deps: deps}
}

// Execute runs the command
func (sc *ServeCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := sc.deps.Config
	profile, err := sc.deps.profile()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, profile, sc.deps.Ledger, sc.deps.Index)
	sc.deps.Console.Infof("Serving %s reports on http://%s", profile.Name, cfg.ServeAddr)
	return srv.ListenAndServe(ctx, cfg.ServeAddr)
}
