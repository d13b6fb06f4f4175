// Command pcfcalc computes product carbon footprints from activity data.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/greenledger/pcfcalc/internal/cli"
	"github.com/greenledger/pcfcalc/pkg/version"
)

func main() {
	os.Exit(extractExitCode(run()))
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cli.NewRootCmd(version.GetVersion()).ExecuteContext(ctx)
}

// extractExitCode maps an error from the command tree to a process exit
// code. A ReconciliationExitError carries its own code; any other error
// exits with 1.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var recErr *cli.ReconciliationExitError
	if errors.As(err, &recErr) {
		return recErr.ExitCode
	}
	return 1
}
