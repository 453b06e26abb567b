package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/billsync/internal/client/cache"
	"github.com/dmitrijs2005/billsync/internal/client/client"
	"github.com/dmitrijs2005/billsync/internal/client/config"
	"github.com/dmitrijs2005/billsync/internal/client/connectivity"
	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/client/outbox"
	"github.com/dmitrijs2005/billsync/internal/client/repositories/expenses"
	"github.com/dmitrijs2005/billsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/billsync/internal/client/sequence"
	"github.com/dmitrijs2005/billsync/internal/client/services"
	"github.com/dmitrijs2005/billsync/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// expenseService is the expense surface the commands need.
type expenseService interface {
	Create(ctx context.Context, in models.ExpenseInput) (services.CreateResult, error)
	DiscardPending(ctx context.Context, tempID string) error
	Load(ctx context.Context) error
	Refresh(ctx context.Context) (services.Report, error)
	ResyncAll(ctx context.Context) (services.Report, error)
	HandleOnline(ctx context.Context)
	List() []models.Record
	Pending(ctx context.Context) []models.OutboxEntry
	OutboxCount(ctx context.Context) int
}

type invoiceService interface {
	Create(ctx context.Context, in models.InvoiceInput) (models.Invoice, error)
}

type connectivityMonitor interface {
	IsOnline() bool
	Run(ctx context.Context, interval time.Duration)
}

// App is the composition root of the CLI: it owns the local database, the
// API connection and the services built on top of them.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	api      *client.GRPCClient
	auth     services.AuthService
	expenses expenseService
	invoices invoiceService
	monitor  connectivityMonitor

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database, connects the API client and wires the
// services. The caller must Close the returned App.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewBillingClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	a := &App{
		config: c,
		logger: logger,
		db:     db,
		api:    api,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	metaRepo := metadata.NewSQLiteRepository(db)
	queue := outbox.New(metaRepo, logger)
	monitor := connectivity.NewMonitor(api, logger, c.WriteTimeout)

	a.auth = services.NewAuthService(api, metaRepo, queue, logger)

	expenseSvc := services.NewExpenseService(services.ExpenseDeps{
		Remote:       api,
		Outbox:       queue,
		Cache:        cache.New(),
		Snapshot:     expenses.NewSQLiteRepository(db),
		Connectivity: monitor,
		Session:      a.auth,
		Notifier:     &printNotifier{w: a.out},
		Logger:       logger,
	}, services.WithWriteTimeout(c.WriteTimeout))
	a.expenses = expenseSvc

	allocator := sequence.NewAllocator(api,
		sequence.WithPrefix(c.Invoice.Prefix),
		sequence.WithWidth(c.Invoice.Width),
		sequence.WithMaxAttempts(c.Invoice.MaxAttempts),
	)
	a.invoices = services.NewInvoiceService(api, allocator, a.auth, logger)

	monitor.OnOnline(a.onOnline)
	a.monitor = monitor

	return a, nil
}

// onOnline replays queued writes once the server is reachable again.
func (a *App) onOnline(ctx context.Context) {
	if !a.isLoggedIn() {
		return
	}
	a.expenses.HandleOnline(ctx)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "mode switched", "mode", string(mode))
	}
}

func (a *App) syncMode() {
	if a.monitor.IsOnline() {
		a.setMode(ModeOnline)
	} else if a.isLoggedIn() {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeDisabled)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.auth.Session().Active()
}

// Run starts the connectivity watcher and the REPL, and blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.monitor.Run(ctx, a.config.OnlineCheckInterval)
	go a.watch(ctx)

	printlnFn("Welcome to billsync CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// watch mirrors the monitor state into the prompt mode.
func (a *App) watch(ctx context.Context) {
	ticker := time.NewTicker(a.config.OnlineCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.syncMode()
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the API connection and the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.auth.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
