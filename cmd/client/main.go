package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophvault/internal/client/cli"
	"github.com/dmitrijs2005/gophvault/internal/client/config"
	"github.com/dmitrijs2005/gophvault/internal/flagx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		stop()
		log.Fatalf("%v", err)
	}

	code := app.Run(ctx, flagx.StripArgs(os.Args[1:], config.Flags))
	_ = app.Close()
	stop()
	os.Exit(code)
}
