// Command scholarctl manages a ScholarPort portfolio over its REST API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var n notified
		if !errors.As(err, &n) {
			fmt.Fprintln(os.Stderr, "scholarctl:", err)
		}
		os.Exit(1)
	}
}
