package main

import (
	"context"
	"github.com/stretchr/testify/assert"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"
)

func TestCancelOnSignal(t *testing.T) {
	// SIGWINCH is ignored by default, so it is safe to raise once the handler is gone.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGWINCH)
	defer signal.Stop(signals)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cancelOnSignal(signals, cancel)
		close(done)
	}()

	assert.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGWINCH))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("signal did not cancel")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	// the channel is no longer subscribed, the next signal goes to the default handler.
	assert.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGWINCH))
	select {
	case s := <-signals:
		t.Fatalf("got %v after the handler was stopped", s)
	case <-time.After(50 * time.Millisecond):
	}
}
