package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/client/config"
	"github.com/dmitrijs2005/gophvault/internal/client/state"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/rs/zerolog"
)

var errNotLoggedIn = errors.New("not logged in: run 'gophvault login <token>' or pass -t")

// dialClient is a test seam for the gRPC client constructor.
var dialClient = func(addr, token string) (client.Client, error) {
	return client.NewGophVaultClient(addr, token)
}

type App struct {
	config *config.Config
	state  *state.Store
	api    client.Client
	logger logging.Logger
}

// NewApp opens the local state database. The server connection is made on
// the first command that needs it.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	st, err := state.Open(ctx, c.StateFile)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}

	logger := logging.NewConsoleLogger(logOut, zerolog.InfoLevel).With("module", "cli")

	return &App{config: c, state: st, logger: logger}, nil
}

// client returns the API client, dialing it on first use. A token given in
// the configuration wins over the one saved by "login".
func (a *App) client(ctx context.Context) (client.Client, error) {
	if a.api != nil {
		return a.api, nil
	}

	token := a.config.AccessToken
	if token == "" {
		saved, err := a.state.Token(ctx)
		if err != nil {
			return nil, err
		}
		token = saved
	}
	if token == "" {
		return nil, errNotLoggedIn
	}

	api, err := dialClient(a.config.ServerEndpointAddr, token)
	if err != nil {
		return nil, err
	}
	a.api = api
	return api, nil
}

// callCtx bounds a single request by the configured timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) Close() error {
	var errs []error
	if a.api != nil {
		errs = append(errs, a.api.Close())
	}
	if a.state != nil {
		errs = append(errs, a.state.Close())
	}
	return errors.Join(errs...)
}

// Run executes the command line in args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := NewRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
