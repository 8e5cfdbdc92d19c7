package mcpserver_test

import (
	"bufio"
	"context"
	"io"
	"testing"
	"time"

	"casetrack/internal/logging"
	"casetrack/internal/mcpserver"
)

func TestWatchParent_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mcpserver.WatchParent(ctx, cancel, logging.Discard())
	cancel()
	time.Sleep(50 * time.Millisecond)
	if ctx.Err() == nil {
		t.Fatal("context should be canceled")
	}
}

func TestWatchParent_LeavesStdinAlone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	defer pr.Close()

	mcpserver.WatchParent(ctx, cancel, logging.Discard())
	time.Sleep(50 * time.Millisecond)

	msg := `{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n"
	go func() {
		pw.Write([]byte(msg))
		pw.Close()
	}()

	scanner := bufio.NewScanner(pr)
	if !scanner.Scan() {
		t.Fatalf("reader got no data; err=%v", scanner.Err())
	}
	if got, want := scanner.Text(), msg[:len(msg)-1]; got != want {
		t.Fatalf("reader got %q, want %q", got, want)
	}
	if ctx.Err() != nil {
		t.Error("watchdog canceled a live server")
	}
}
