// Package server initializes and runs the billing server. It opens the
// PostgreSQL pool, applies migrations, builds the services and serves them
// over gRPC next to a Prometheus metrics endpoint until a shutdown signal
// arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/billsync/internal/logging"
	"github.com/dmitrijs2005/billsync/internal/server/config"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/billsync/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/billsync/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	registry       *prometheus.Registry
	userService    *services.UserService
	expenseService *services.ExpenseService
	invoiceService *services.InvoiceService
}

// NewApp connects to the database, runs migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := waitForDB(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "billsync"),
	)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		registry:       reg,
		userService:    services.NewUserService(db, m, c),
		expenseService: services.NewExpenseService(db, m),
		invoiceService: services.NewInvoiceService(db, m),
	}, nil
}

// waitForDB pings the database with exponential backoff; the server often
// starts before PostgreSQL accepts connections.
func waitForDB(ctx context.Context, db *sql.DB, logger logging.Logger) error {
	b := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			logger.Warn(ctx, "database not ready", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) grpcServer() *gs.GRPCServer {
	return gs.NewGRPCServer(
		app.config.EndpointAddrGRPC,
		app.logger,
		app.userService,
		app.expenseService,
		app.invoiceService,
		app.config.SecretKey,
		gs.WithMetrics(gs.NewMetrics(app.registry)),
		gs.WithRateLimit(app.config.RateLimit, app.config.RateBurst),
	)
}

func (app *App) runMetricsServer(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", gs.MetricsHandler(app.registry))

	srv := &http.Server{
		Addr:              app.config.EndpointAddrMetrics,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until a signal arrives, ctx is cancelled or one of the
// listeners fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpcServer().Run(gctx)
	})

	if app.config.EndpointAddrMetrics != "" {
		g.Go(func() error {
			return app.runMetricsServer(gctx)
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) Close() error {
	return app.db.Close()
}
