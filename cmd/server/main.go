package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
	"github.com/dmitrijs2005/gophvault/internal/server"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
)

// valueFlags lists every flag that consumes the next argument, so that
// positional arguments can be told apart from flag values.
var valueFlags = []string{"-c", "-config", "-a", "-d", "-s", "-t", "-l", "-k", "-u", "-p", "-b", "-g", "-e", "-z", "-o", "-i", "-x", "-r", "-w"}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	// "token <userID>" prints an access token and exits.
	if args := flagx.Positional(os.Args[1:], valueFlags); len(args) > 0 {
		if args[0] != "token" || len(args) != 2 {
			log.Fatalf("usage: %s [flags] [token <userID>]", os.Args[0])
		}
		tok, err := server.MintToken(cfg, args[1])
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println(tok)
		return
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
