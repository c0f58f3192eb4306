package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/dq/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, status := config.Parse(os.Args)
	if status != nil {
		status.Print()
		return status.Code
	}

	app, status := newApp(cfg)
	if status != nil {
		status.Print()
		return status.Code
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	status = app.Run(ctx)
	status.Print()
	return status.Code
}
