package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"comic-service/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("signin failed", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
