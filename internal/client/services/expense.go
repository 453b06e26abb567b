package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/billsync/internal/client/cache"
	"github.com/dmitrijs2005/billsync/internal/client/faults"
	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/client/outbox"
	"github.com/dmitrijs2005/billsync/internal/ids"
	"github.com/dmitrijs2005/billsync/internal/logging"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoSession  = errors.New("no active session")
	ErrNotPending = errors.New("record is not pending")
)

const DefaultWriteTimeout = 10 * time.Second

// State is where a create request ended up.
type State int

const (
	// StateCommitted means the server stored the record.
	StateCommitted State = iota + 1
	// StatePendingSync means the write is queued and the record carries a
	// temporary id.
	StatePendingSync
)

func (s State) String() string {
	switch s {
	case StateCommitted:
		return "committed"
	case StatePendingSync:
		return "pending sync"
	default:
		return "unknown"
	}
}

type CreateResult struct {
	Record models.Record
	State  State
}

// RemoteStore is the part of the remote store the expense service uses.
type RemoteStore interface {
	CreateExpense(ctx context.Context, orgID string, in models.ExpenseInput) (models.Record, error)
	ListExpenses(ctx context.Context, orgID string) ([]models.Record, error)
}

// SnapshotStore keeps the last records confirmed by the server.
type SnapshotStore interface {
	ReplaceAll(ctx context.Context, orgID string, records []models.Record) error
	Upsert(ctx context.Context, r models.Record) error
	List(ctx context.Context, orgID string) ([]models.Record, error)
}

type Connectivity interface {
	IsOnline() bool
}

type SessionProvider interface {
	OrganizationID() string
}

// Notifier receives failures that happen outside a direct caller request.
type Notifier interface {
	// Discarded is called when a queued write was rejected for good.
	Discarded(ctx context.Context, entry models.OutboxEntry, reason error)
	// ResyncFailed is called when a background resync pass could not run.
	ResyncFailed(ctx context.Context, err error)
}

type nopNotifier struct{}

func (nopNotifier) Discarded(context.Context, models.OutboxEntry, error) {}
func (nopNotifier) ResyncFailed(context.Context, error)                 {}

// ExpenseDeps lists the collaborators of an ExpenseService. Notifier may be nil.
type ExpenseDeps struct {
	Remote       RemoteStore
	Outbox       *outbox.Outbox
	Cache        *cache.Cache
	Snapshot     SnapshotStore
	Connectivity Connectivity
	Session      SessionProvider
	Notifier     Notifier
	Logger       logging.Logger
}

type ExpenseOption func(*ExpenseService)

// WithWriteTimeout bounds every remote call.
func WithWriteTimeout(d time.Duration) ExpenseOption {
	return func(s *ExpenseService) { s.writeTimeout = d }
}

func WithClock(now func() time.Time) ExpenseOption {
	return func(s *ExpenseService) { s.now = now }
}

// WithClientRefs replaces the idempotency key source.
func WithClientRefs(next func() string) ExpenseOption {
	return func(s *ExpenseService) { s.newRef = next }
}

// ExpenseService is the local-first write path for expenses. It owns the
// optimistic cache and the outbox and keeps them consistent: a record has a
// temporary id exactly while its write is queued.
type ExpenseService struct {
	remote   RemoteStore
	outbox   *outbox.Outbox
	cache    *cache.Cache
	snapshot SnapshotStore
	conn     Connectivity
	session  SessionProvider
	notifier Notifier
	logger   logging.Logger

	writeTimeout time.Duration
	now          func() time.Time
	newRef       func() string

	// stateMu makes every cache+outbox pair of changes atomic for readers.
	// It is never held across a remote call.
	stateMu sync.Mutex
	// refreshMu is held by Refresh from the list call until the rebuild.
	// Applying a server commit takes the read side, so a record committed
	// while the list is in flight lands on top of the rebuilt cache.
	refreshMu sync.RWMutex
	loaded  atomic.Bool
	resync  singleflight.Group
}

func NewExpenseService(d ExpenseDeps, opts ...ExpenseOption) *ExpenseService {
	s := &ExpenseService{
		remote:       d.Remote,
		outbox:       d.Outbox,
		cache:        d.Cache,
		snapshot:     d.Snapshot,
		conn:         d.Connectivity,
		session:      d.Session,
		notifier:     d.Notifier,
		logger:       d.Logger.With("module", "expenses"),
		writeTimeout: DefaultWriteTimeout,
		now:          time.Now,
		newRef:       ids.New,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *ExpenseService) orgID() (string, error) {
	id := s.session.OrganizationID()
	if id == "" {
		return "", faults.New(faults.KindSession, ErrNoSession)
	}
	return id, nil
}

func (s *ExpenseService) write(ctx context.Context, orgID string, in models.ExpenseInput) (models.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return s.remote.CreateExpense(ctx, orgID, in)
}

// Create validates in and writes it to the server. A transient failure
// queues the write and returns the optimistic record in StatePendingSync
// with a nil error. Terminal failures return a *faults.Fault and leave the
// cache and the outbox untouched.
func (s *ExpenseService) Create(ctx context.Context, in models.ExpenseInput) (CreateResult, error) {
	if err := in.Validate(); err != nil {
		return CreateResult{}, faults.New(faults.KindValidation, err)
	}
	orgID, err := s.orgID()
	if err != nil {
		return CreateResult{}, err
	}
	if in.ClientRef == "" {
		in.ClientRef = s.newRef()
	}
	in.OccurredAt = in.OccurredAt.UTC()

	rec, err := s.write(ctx, orgID, in)
	if err == nil {
		s.refreshMu.RLock()
		s.cache.Prepend(rec)
		s.saveSnapshot(ctx, rec)
		s.refreshMu.RUnlock()
		return CreateResult{Record: rec, State: StateCommitted}, nil
	}

	f := faults.FromError(err)
	if !faults.IsRetryable(f, s.conn.IsOnline()) {
		s.logger.Info(ctx, "expense rejected", "kind", f.Kind.String(), "error", err)
		return CreateResult{}, &f
	}

	entry := models.OutboxEntry{
		TempID:    models.TempID(in.ClientRef),
		Payload:   in,
		CreatedAt: s.now().UTC(),
	}
	pending := entry.Record(orgID)

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if err := s.outbox.Enqueue(ctx, entry); err != nil {
		return CreateResult{}, err
	}
	s.cache.Prepend(pending)

	s.logger.Info(ctx, "expense queued", "temp_id", entry.TempID, "error", err)
	return CreateResult{Record: pending, State: StatePendingSync}, nil
}

// Reconcile swaps the temporary record tempID for the server record and
// drains its outbox entry. Calling it again for the same tempID changes
// nothing; an unknown tempID never inserts a record.
func (s *ExpenseService) Reconcile(ctx context.Context, tempID string, rec models.Record) error {
	s.refreshMu.RLock()
	defer s.refreshMu.RUnlock()

	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.reconcileLocked(ctx, tempID, rec)
}

func (s *ExpenseService) reconcileLocked(ctx context.Context, tempID string, rec models.Record) error {
	if s.cache.Replace(tempID, rec) {
		s.saveSnapshot(ctx, rec)
	}
	return s.outbox.Dequeue(ctx, tempID)
}

// DiscardPending drops a queued write without contacting the server.
func (s *ExpenseService) DiscardPending(ctx context.Context, tempID string) error {
	if !models.IsTemporaryID(tempID) {
		return ErrNotPending
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	_, cached := s.cache.Get(tempID)
	if !cached && !s.outbox.Contains(ctx, tempID) {
		return ErrNotPending
	}
	if err := s.outbox.Dequeue(ctx, tempID); err != nil {
		return err
	}
	s.cache.Remove(tempID)
	return nil
}

// Load rebuilds the cache from the stored server snapshot and the outbox.
// It needs no connectivity.
func (s *ExpenseService) Load(ctx context.Context) error {
	orgID, err := s.orgID()
	if err != nil {
		return err
	}
	if err := s.outbox.Load(ctx); err != nil {
		return err
	}

	server, err := s.snapshot.List(ctx, orgID)
	if err != nil {
		s.logger.Warn(ctx, "stored snapshot unreadable, showing pending writes only", "error", err)
		server = nil
	}
	s.rebuild(ctx, orgID, server)
	return nil
}

// Refresh fetches the record list from the server, stores it as the new
// snapshot, rebuilds the cache and then replays the outbox. When the list
// call fails on a service that was never loaded, the cache is rebuilt from
// local state before the error is returned.
func (s *ExpenseService) Refresh(ctx context.Context) (Report, error) {
	orgID, err := s.orgID()
	if err != nil {
		return Report{}, err
	}

	if err := s.refreshSnapshot(ctx, orgID); err != nil {
		if !s.loaded.Load() {
			if lerr := s.Load(ctx); lerr != nil {
				s.logger.Warn(ctx, "failed to load local state", "error", lerr)
			}
		}
		return Report{}, err
	}

	return s.ResyncAll(ctx)
}

func (s *ExpenseService) refreshSnapshot(ctx context.Context, orgID string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	lctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	server, err := s.remote.ListExpenses(lctx, orgID)
	cancel()
	if err != nil {
		return err
	}

	if err := s.snapshot.ReplaceAll(ctx, orgID, server); err != nil {
		s.logger.Warn(ctx, "failed to store snapshot", "error", err)
	}
	s.rebuild(ctx, orgID, server)
	return nil
}

func (s *ExpenseService) rebuild(ctx context.Context, orgID string, server []models.Record) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	committed := s.cache.Rebuild(server, s.outbox.List(ctx), orgID)
	for tempID := range committed {
		if err := s.outbox.Dequeue(ctx, tempID); err != nil {
			s.logger.Warn(ctx, "failed to drain committed entry", "temp_id", tempID, "error", err)
		}
	}
	if len(committed) > 0 {
		s.logger.Info(ctx, "drained writes the server already had", "count", len(committed))
	}
	s.loaded.Store(true)
}

func (s *ExpenseService) saveSnapshot(ctx context.Context, rec models.Record) {
	if err := s.snapshot.Upsert(ctx, rec); err != nil {
		s.logger.Warn(ctx, "failed to store record snapshot", "id", rec.ID, "error", err)
	}
}

// ResyncAll replays every queued write once. Concurrent calls share one
// pass; a call made while a pass is running gets that pass's report.
func (s *ExpenseService) ResyncAll(ctx context.Context) (Report, error) {
	v, err, _ := s.resync.Do("resync", func() (any, error) {
		return s.resyncAll(ctx)
	})
	rep, _ := v.(Report)
	return rep, err
}

func (s *ExpenseService) resyncAll(ctx context.Context) (Report, error) {
	orgID, err := s.orgID()
	if err != nil {
		return Report{}, err
	}
	if !s.loaded.Load() {
		if err := s.Load(ctx); err != nil {
			return Report{}, err
		}
	}

	entries := s.outbox.List(ctx)
	rep := Report{Results: make([]EntryResult, 0, len(entries))}

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			rep.retainAll(entries[i:], err)
			return rep, err
		}

		if s.dropDangling(ctx, e.TempID) {
			rep.add(EntryResult{TempID: e.TempID, Outcome: OutcomeDropped})
			continue
		}

		rec, err := s.write(ctx, orgID, e.Payload)
		if err == nil {
			if err := s.Reconcile(ctx, e.TempID, rec); err != nil {
				s.logger.Warn(ctx, "reconciled but outbox not drained", "temp_id", e.TempID, "error", err)
			}
			rep.add(EntryResult{TempID: e.TempID, Outcome: OutcomeReconciled, Record: rec})
			continue
		}
		// a write cut short by the caller stays queued
		if cerr := ctx.Err(); cerr != nil {
			rep.retainAll(entries[i:], cerr)
			return rep, cerr
		}

		f := faults.FromError(err)
		if f.Kind == faults.KindSession {
			rep.retainAll(entries[i:], &f)
			return rep, &f
		}
		if faults.IsRetryable(f, s.conn.IsOnline()) {
			rep.add(EntryResult{TempID: e.TempID, Outcome: OutcomeRetained, Err: &f})
			continue
		}

		if err := s.discardRejected(ctx, e.TempID); err != nil {
			s.logger.Error(ctx, "failed to drop rejected entry", "temp_id", e.TempID, "error", err)
			rep.add(EntryResult{TempID: e.TempID, Outcome: OutcomeRetained, Err: err})
			continue
		}
		s.logger.Warn(ctx, "queued expense rejected by server", "temp_id", e.TempID, "kind", f.Kind.String(), "error", f.Raw)
		s.notifier.Discarded(ctx, e, &f)
		rep.add(EntryResult{TempID: e.TempID, Outcome: OutcomeDiscarded, Err: &f})
	}

	if n := rep.Count(OutcomeReconciled); n > 0 {
		s.logger.Info(ctx, "resync finished", "reconciled", n, "pending", s.outbox.Count(ctx))
	}
	return rep, nil
}

// dropDangling removes an outbox entry whose record is no longer cached,
// which happens when a crash separated the two updates.
func (s *ExpenseService) dropDangling(ctx context.Context, tempID string) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if _, ok := s.cache.Get(tempID); ok {
		return false
	}
	if err := s.outbox.Dequeue(ctx, tempID); err != nil {
		s.logger.Warn(ctx, "failed to drop dangling entry", "temp_id", tempID, "error", err)
	}
	return true
}

func (s *ExpenseService) discardRejected(ctx context.Context, tempID string) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if err := s.outbox.Dequeue(ctx, tempID); err != nil {
		return err
	}
	s.cache.Remove(tempID)
	return nil
}

// HandleOnline runs a resync pass and forwards a failed pass to the
// notifier. It is meant to be registered as a connectivity listener.
func (s *ExpenseService) HandleOnline(ctx context.Context) {
	if _, err := s.ResyncAll(ctx); err != nil {
		s.notifier.ResyncFailed(ctx, err)
	}
}

// List returns the cached records, newest first.
func (s *ExpenseService) List() []models.Record {
	return s.cache.Snapshot()
}

func (s *ExpenseService) Pending(ctx context.Context) []models.OutboxEntry {
	return s.outbox.List(ctx)
}

func (s *ExpenseService) OutboxCount(ctx context.Context) int {
	return s.outbox.Count(ctx)
}
