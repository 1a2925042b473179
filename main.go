package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-catalog/commands"
	"restaurant-catalog/config"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.ExecuteContext(ctx, cfg)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
