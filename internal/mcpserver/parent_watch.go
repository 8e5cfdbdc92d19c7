package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ParentPollInterval is how often WatchParent checks the parent process.
var ParentPollInterval = 2 * time.Second

// WatchParent calls cancel when the parent process exits, so a server whose
// client went away does not linger. It never touches stdin, which belongs to
// the stdio transport. The goroutine stops when ctx is done.
func WatchParent(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger) {
	ppid := os.Getppid()
	go func() {
		ticker := time.NewTicker(ParentPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if os.Getppid() != ppid {
					logger.Warn("parent process exited, shutting down", "parent_pid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
