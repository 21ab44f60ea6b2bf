// Package server wires the Gatekeeper server: storage and migrations, the
// session and invitation services, and the gRPC and HTTP transports. It owns
// signal handling and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/gatekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/gatekeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	guard       *auth.Guard
	registry    *prometheus.Registry
	sessions    *services.SessionService
	invitations *services.InvitationService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	issuer := auth.NewIssuer(c.IssuerConfig())
	hasher := auth.NewPasswordHasher(c.BcryptCost)

	is := services.NewInvitationService(db, rm, c.RegistrationKeyValidityDuration, c.RegistrationLinkBaseURL, recorder, logger)
	ss := services.NewSessionService(db, rm, issuer, hasher, is, recorder, logger)

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		guard:       auth.NewGuard(issuer),
		registry:    registry,
		sessions:    ss,
		invitations: is,
	}

	if err := app.bootstrap(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return app, nil
}

// bootstrap creates the configured first account so the first invitation can
// be issued.
func (app *App) bootstrap(ctx context.Context) error {
	if app.config.BootstrapUser == "" {
		return nil
	}
	if err := app.sessions.EnsureUser(ctx, app.config.BootstrapUser, app.config.BootstrapPassword); err != nil {
		return fmt.Errorf("bootstrap user: %w", err)
	}
	app.logger.Info(ctx, "bootstrap user ensured", "username", app.config.BootstrapUser)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.sessions, app.invitations, app.guard)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Sessions:    app.sessions,
		Invitations: app.invitations,
		Guard:       app.guard,
		Cookie: httpapi.CookieConfig{
			Secure: app.config.SecureCookie,
			MaxAge: app.config.RefreshTokenValidityDuration,
		},
		Metrics: metrics.Handler(app.registry),
		Logger:  app.logger,
	})

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or a transport fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
