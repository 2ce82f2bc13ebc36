package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jdmichaud/rdicom/cmd/rdicom/cmd"
)

// gitsha is stamped by the build: -ldflags "-X main.gitsha=$(git rev-parse HEAD)"
var gitsha = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRoot(ctx, gitsha).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, cmd.ErrConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
