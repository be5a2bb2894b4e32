package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/mmk-backoffice/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCommand(nil))
	stop()
	os.Exit(code) //nolint:forbidigo // exit status carries the command result
}
