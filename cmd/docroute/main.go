package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"docroute/internal/cli"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.NewApp().RunContext(ctx, os.Args)
}
