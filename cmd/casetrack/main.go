// casetrack tracks the processing timelines of a list of similar cases and
// reports which ones moved since the last run.
//
// Usage:
//
//	casetrack [track] [--pages-dir=<dir>] [--dry-run]
//	casetrack analyze
//	casetrack history [id...] [--all]
//	casetrack compact
//	casetrack serve
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"casetrack/internal/cases"
	"casetrack/internal/history"
)

// version is set at build time via -ldflags.
var version = "dev"

// Exit codes.
const (
	exitError       = 1
	exitMissingFile = 2
	exitMalformed   = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case cases.IsMissingFile(err):
		return exitMissingFile
	case history.IsMalformedRow(err):
		return exitMalformed
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return exitError
	}
}
