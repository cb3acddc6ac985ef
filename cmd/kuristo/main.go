package main

import (
	"fmt"
	"os"

	"github.com/andrsd/kuristo/cmd/kuristo/cmd"
	"github.com/andrsd/kuristo/internal/sentry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Defer order matters: RecoverAndPanic is deferred first so it runs
	// last, after cleanup has flushed pending events.
	defer sentry.RecoverAndPanic()
	cleanup := sentry.Init(cmd.Version)
	defer cleanup()

	if err := cmd.Execute(); err != nil {
		sentry.CaptureError(err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
