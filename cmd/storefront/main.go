// Command storefront is an interactive text client for the Merry's Way
// ordering API. Cart edits are applied locally and synced in the
// background.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/merrysway/storefront/internal/interfaces/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewStorefrontCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
