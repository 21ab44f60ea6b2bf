package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gatekeeper/internal/client/client"
	"github.com/dmitrijs2005/gatekeeper/internal/client/config"
)

type App struct {
	config   *config.Config
	client   client.Client
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGatekeeperClient(c.ServerEndpointAddr, c.UserAgent)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isSignedIn() bool {
	return a.client.SignedIn()
}

func (a *App) getStatus() string {
	if !a.isSignedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// withTimeout bounds one server round trip.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// Run prints a greeting, checks the server, and runs the REPL on the reader
// until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	fmt.Fprintln(a.out, "Welcome to Gatekeeper CLI (type 'help' for commands)")

	pingCtx, cancel := a.withTimeout(ctx)
	if err := a.client.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "Server %s is not reachable: %v\n", a.config.ServerEndpointAddr, err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
