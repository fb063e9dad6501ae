package mcp

import (
	"context"
	"os"
	"time"

	"roomwalk/internal/logging"
)

// WatchParent cancels the server when the parent process goes away, so an
// MCP client that dies without closing stdio does not leave us running.
//
// It must not read stdin: the stdio transport owns it.
func WatchParent(ctx context.Context, interval time.Duration, cancel context.CancelFunc) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ppid := os.Getppid()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if os.Getppid() != ppid {
					logging.New("mcp").Warn("parent process exited, shutting down", "ppid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
