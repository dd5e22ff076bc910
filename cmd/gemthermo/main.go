// Command gemthermo builds and serves thermodynamic caches for
// genome-scale metabolic models.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/gem-thermo/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute prints the error.
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

//Personal.AI order the ending
