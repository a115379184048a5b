package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitEnforced = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, errEnforcement) {
			fmt.Fprintln(os.Stderr, err)
			return exitEnforced
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitFatal
	}
	return exitOK
}
