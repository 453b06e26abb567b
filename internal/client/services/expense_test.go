package services

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/billsync/internal/client/cache"
	"github.com/dmitrijs2005/billsync/internal/client/client"
	"github.com/dmitrijs2005/billsync/internal/client/connectivity"
	"github.com/dmitrijs2005/billsync/internal/client/faults"
	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/client/outbox"
	"github.com/dmitrijs2005/billsync/internal/client/repositories/expenses"
	"github.com/dmitrijs2005/billsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/billsync/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var (
	fixedNow   = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	errNetwork = &faults.RemoteError{StatusCode: 0, Message: "TypeError: Failed to fetch"}
)

// ---- fakes ----

type fakeRemote struct {
	mu     sync.Mutex
	calls  []models.ExpenseInput
	create func(n int, in models.ExpenseInput) (models.Record, error)
	block  chan struct{}

	list        []models.Record
	listErr     error
	listStarted chan struct{}
	listBlock   chan struct{}
}

func serverRecord(orgID string, in models.ExpenseInput) models.Record {
	return models.Record{
		ID:             "srv-" + in.ClientRef,
		OrganizationID: orgID,
		Title:          in.Title,
		Amount:         in.Amount,
		Status:         in.Status,
		OccurredAt:     in.OccurredAt,
		CreatedAt:      fixedNow.Add(time.Minute),
		UpdatedAt:      fixedNow.Add(time.Minute),
		ClientRef:      in.ClientRef,
	}
}

func (f *fakeRemote) CreateExpense(ctx context.Context, orgID string, in models.ExpenseInput) (models.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	n := len(f.calls)
	fn := f.create
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if fn == nil {
		return serverRecord(orgID, in), nil
	}
	return fn(n, in)
}

func (f *fakeRemote) ListExpenses(ctx context.Context, orgID string) ([]models.Record, error) {
	f.mu.Lock()
	list, listErr := f.list, f.listErr
	started, block := f.listStarted, f.listBlock
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	return list, listErr
}

func (f *fakeRemote) setCreate(fn func(n int, in models.ExpenseInput) (models.Record, error)) {
	f.mu.Lock()
	f.create = fn
	f.mu.Unlock()
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func failWith(err error) func(int, models.ExpenseInput) (models.Record, error) {
	return func(int, models.ExpenseInput) (models.Record, error) { return models.Record{}, err }
}

type fakeConn struct {
	mu     sync.Mutex
	online bool
}

func (c *fakeConn) IsOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *fakeConn) set(v bool) {
	c.mu.Lock()
	c.online = v
	c.mu.Unlock()
}

type fakeSession struct{ org string }

func (s fakeSession) OrganizationID() string { return s.org }

type memSnapshot struct {
	mu   sync.Mutex
	recs map[string]models.Record
}

func newMemSnapshot() *memSnapshot {
	return &memSnapshot{recs: map[string]models.Record{}}
}

func (m *memSnapshot) ReplaceAll(_ context.Context, orgID string, records []models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = map[string]models.Record{}
	for _, r := range records {
		m.recs[r.ID] = r
	}
	return nil
}

func (m *memSnapshot) Upsert(_ context.Context, r models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[r.ID] = r
	return nil
}

func (m *memSnapshot) List(_ context.Context, orgID string) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Record, 0, len(m.recs))
	for _, r := range m.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	discarded []string
	failed    []error
}

func (n *recordingNotifier) Discarded(_ context.Context, e models.OutboxEntry, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.discarded = append(n.discarded, e.TempID)
}

func (n *recordingNotifier) ResyncFailed(_ context.Context, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, err)
}

type failingStorage struct {
	*outbox.MemoryStorage
	setErr error
}

func (f *failingStorage) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

// ---- fixture ----

type fixture struct {
	svc      *ExpenseService
	remote   *fakeRemote
	conn     *fakeConn
	storage  *failingStorage
	outbox   *outbox.Outbox
	cache    *cache.Cache
	snapshot *memSnapshot
	notifier *recordingNotifier
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		remote:   &fakeRemote{},
		conn:     &fakeConn{online: online},
		storage:  &failingStorage{MemoryStorage: outbox.NewMemoryStorage()},
		cache:    cache.New(),
		snapshot: newMemSnapshot(),
		notifier: &recordingNotifier{},
	}
	f.outbox = outbox.New(f.storage, logging.NewNop())

	f.svc = NewExpenseService(ExpenseDeps{
		Remote:       f.remote,
		Outbox:       f.outbox,
		Cache:        f.cache,
		Snapshot:     f.snapshot,
		Connectivity: f.conn,
		Session:      fakeSession{org: "org-1"},
		Notifier:     f.notifier,
		Logger:       logging.NewNop(),
	}, WithClock(func() time.Time { return fixedNow }), WithWriteTimeout(time.Second))

	require.NoError(t, f.svc.Load(ctx))
	return f
}

func input(title, amount string) models.ExpenseInput {
	return models.ExpenseInput{
		Title:      title,
		Amount:     decimal.RequireFromString(amount),
		Status:     models.StatusPending,
		OccurredAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func requireNoDuplicates(t *testing.T, recs []models.Record) {
	t.Helper()
	ids := map[string]bool{}
	refs := map[string]bool{}
	for _, r := range recs {
		require.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
		if r.ClientRef != "" {
			require.False(t, refs[r.ClientRef], "duplicate logical record %s", r.ClientRef)
			refs[r.ClientRef] = true
		}
	}
}

// ---- create ----

func TestCreate_OnlineCommits(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, input("Taxi", "150.00"))
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, res.State)
	assert.False(t, res.Record.IsTemporary())

	assert.Equal(t, 0, f.svc.OutboxCount(ctx))
	assert.Equal(t, []models.Record{res.Record}, f.svc.List())

	stored, _ := f.snapshot.List(ctx, "org-1")
	assert.Len(t, stored, 1)
}

func TestCreate_OfflineQueues(t *testing.T) {
	f := newFixture(t, false)
	f.remote.setCreate(failWith(errNetwork))
	ctx := context.Background()

	res, err := f.svc.Create(ctx, input("Taxi", "150.00"))
	require.NoError(t, err)

	assert.Equal(t, StatePendingSync, res.State)
	assert.True(t, res.Record.IsTemporary())
	assert.Equal(t, models.TempID(res.Record.ClientRef), res.Record.ID)
	assert.True(t, res.Record.Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, 1, f.svc.OutboxCount(ctx))

	list := f.svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, res.Record.ID, list[0].ID)
}

func TestCreate_AnyErrorWhileOfflineQueues(t *testing.T) {
	f := newFixture(t, false)
	f.remote.setCreate(failWith(&faults.RemoteError{StatusCode: 400, Message: "invalid amount"}))

	res, err := f.svc.Create(context.Background(), input("Taxi", "10"))
	require.NoError(t, err)
	assert.Equal(t, StatePendingSync, res.State)
}

func TestCreate_ValidationRejectedBeforeAnyMutation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, input("Taxi", "-5"))

	var fault *faults.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, faults.KindValidation, fault.Kind)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Equal(t, 0, f.svc.OutboxCount(ctx))
	assert.Empty(t, f.svc.List())
	assert.Equal(t, 0, f.remote.callCount())
}

func TestCreate_TerminalRemoteFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind faults.Kind
	}{
		{"not authorized", &faults.RemoteError{StatusCode: 403, Message: "not authorized"}, faults.KindAuth},
		{"invalid amount", &faults.RemoteError{StatusCode: 400, Message: "invalid amount"}, faults.KindValidation},
		{"constraint", errors.New("duplicate key value violates unique constraint"), faults.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.remote.setCreate(failWith(tt.err))
			ctx := context.Background()

			_, err := f.svc.Create(ctx, input("Taxi", "10"))

			var fault *faults.Fault
			require.ErrorAs(t, err, &fault)
			assert.Equal(t, tt.kind, fault.Kind)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 0, f.svc.OutboxCount(ctx))
			assert.Empty(t, f.svc.List())
		})
	}
}

func TestCreate_EnqueueFailureIsLoud(t *testing.T) {
	f := newFixture(t, false)
	f.remote.setCreate(failWith(errNetwork))
	f.storage.setErr = errors.New("disk full")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, input("Taxi", "10"))
	require.ErrorContains(t, err, "disk full")
	assert.Empty(t, f.svc.List())
	assert.Equal(t, 0, f.svc.OutboxCount(ctx))
}

func TestCreate_NoSession(t *testing.T) {
	f := newFixture(t, true)
	f.svc.session = fakeSession{}

	_, err := f.svc.Create(context.Background(), input("Taxi", "10"))
	require.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, faults.KindSession, faults.FromError(err).Kind)
	assert.Equal(t, 0, f.remote.callCount())
}

func TestCreate_RetriesReuseClientRef(t *testing.T) {
	f := newFixture(t, false)
	f.remote.setCreate(failWith(errNetwork))
	ctx := context.Background()

	res, err := f.svc.Create(ctx, input("Taxi", "10"))
	require.NoError(t, err)

	f.remote.setCreate(nil)
	f.conn.set(true)
	_, err = f.svc.ResyncAll(ctx)
	require.NoError(t, err)

	require.Equal(t, 2, f.remote.callCount())
	assert.Equal(t, f.remote.calls[0].ClientRef, f.remote.calls[1].ClientRef)
	assert.Equal(t, res.Record.ClientRef, f.remote.calls[1].ClientRef)
}

// ---- reconcile / discard ----

func queueOne(t *testing.T, f *fixture, title string) models.Record {
	t.Helper()
	f.remote.setCreate(failWith(errNetwork))
	res, err := f.svc.Create(context.Background(), input(title, "150.00"))
	require.NoError(t, err)
	require.Equal(t, StatePendingSync, res.State)
	f.remote.setCreate(nil)
	return res.Record
}

func TestReconcile_IsIdempotent(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	queueOne(t, f, "older")
	pending := queueOne(t, f, "newer")

	srv := serverRecord("org-1", models.ExpenseInput{ClientRef: pending.ClientRef, Title: "newer"})

	require.NoError(t, f.svc.Reconcile(ctx, pending.ID, srv))
	once := f.svc.List()

	require.NoError(t, f.svc.Reconcile(ctx, pending.ID, srv))
	assert.Equal(t, once, f.svc.List())

	assert.Equal(t, srv.ID, once[0].ID, "position kept")
	assert.Equal(t, 1, f.svc.OutboxCount(ctx))
}

func TestReconcile_UnknownTempIDDoesNotInsert(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.svc.Reconcile(context.Background(), "tmp-gone", models.Record{ID: "srv-gone"}))
	assert.Empty(t, f.svc.List())
}

func TestDiscardPending_SkipsRemote(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	pending := queueOne(t, f, "Taxi")
	calls := f.remote.callCount()

	require.NoError(t, f.svc.DiscardPending(ctx, pending.ID))

	assert.Equal(t, 0, f.svc.OutboxCount(ctx))
	assert.Empty(t, f.svc.List())
	assert.Equal(t, calls, f.remote.callCount())
}

func TestDiscardPending_Errors(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, input("Taxi", "10"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DiscardPending(ctx, res.Record.ID), ErrNotPending)
	assert.ErrorIs(t, f.svc.DiscardPending(ctx, "tmp-unknown"), ErrNotPending)
	assert.Len(t, f.svc.List(), 1)
}

// ---- resync ----

func TestResyncAll_Converges(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		queueOne(t, f, "expense")
	}
	require.Equal(t, n, f.svc.OutboxCount(ctx))

	f.conn.set(true)
	rep, err := f.svc.ResyncAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, n, rep.Count(OutcomeReconciled))
	assert.Equal(t, 0, f.svc.OutboxCount(ctx))

	list := f.svc.List()
	require.Len(t, list, n)
	for _, r := range list {
		assert.False(t, r.IsTemporary())
	}
	requireNoDuplicates(t, list)
}

func TestResyncAll_TransientFailureRetains(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	pending := queueOne(t, f, "Taxi")

	f.remote.setCreate(failWith(errNetwork))
	rep, err := f.svc.ResyncAll(ctx)
	require.NoError(t, err)

	require.Len(t, rep.Results, 1)
	assert.Equal(t, OutcomeRetained, rep.Results[0].Outcome)
	assert.Equal(t, 1, f.svc.OutboxCount(ctx))
	_, ok := f.cache.Get(pending.ID)
	assert.True(t, ok)
}

func TestResyncAll_TerminalFailureDiscardsAndNotifies(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	bad := queueOne(t, f, "bad")
	good := queueOne(t, f, "good")

	f.conn.set(true)
	f.remote.setCreate(func(_ int, in models.ExpenseInput) (models.Record, error) {
		if in.ClientRef == bad.ClientRef {
			return models.Record{}, &faults.RemoteError{StatusCode: 400, Message: "invalid amount"}
		}
		return serverRecord("org-1", in), nil
	})

	rep, err := f.svc.ResyncAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Count(OutcomeDiscarded))
	assert.Equal(t, 1, rep.Count(OutcomeReconciled))
	assert.Equal(t, []string{bad.ID}, f.notifier.discarded)
	assert.Equal(t, 0, f.svc.OutboxCount(ctx))

	list := f.svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, "srv-"+good.ClientRef, list[0].ID)

	// a second pass has nothing left to loop on
	before := f.remote.callCount()
	_, err = f.svc.ResyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, f.remote.callCount())
}

func TestResyncAll_SessionFaultStopsPass(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	queueOne(t, f, "a")
	queueOne(t, f, "b")
	calls := f.remote.callCount()

	f.conn.set(true)
	f.remote.setCreate(failWith(&faults.RemoteError{StatusCode: 401, Message: "token expired"}))

	rep, err := f.svc.ResyncAll(ctx)
	require.Error(t, err)
	assert.Equal(t, faults.KindSession, faults.FromError(err).Kind)
	assert.Equal(t, 2, rep.Count(OutcomeRetained))
	assert.Equal(t, calls+1, f.remote.callCount())
	assert.Equal(t, 2, f.svc.OutboxCount(ctx))
}

func TestResyncAll_DropsDanglingEntry(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	dangling := models.OutboxEntry{TempID: models.TempID("LOST"), Payload: input("lost", "1"), CreatedAt: fixedNow}
	dangling.Payload.ClientRef = "LOST"
	require.NoError(t, f.outbox.Enqueue(ctx, dangling))

	rep, err := f.svc.ResyncAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Count(OutcomeDropped))
	assert.Equal(t, 0, f.remote.callCount())
	assert.Equal(t, 0, f.svc.OutboxCount(ctx))
	assert.Empty(t, f.svc.List())
}

func TestResyncAll_ConcurrentCallsDoNotDoubleSubmit(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	queueOne(t, f, "Taxi")
	before := f.remote.callCount()

	f.conn.set(true)
	block := make(chan struct{})
	f.remote.mu.Lock()
	f.remote.block = block
	f.remote.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ResyncAll(ctx)
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return f.remote.callCount() == before+1 }, time.Second, time.Millisecond)
	close(block)
	wg.Wait()

	assert.Equal(t, before+1, f.remote.callCount())
	assert.Equal(t, 0, f.svc.OutboxCount(ctx))
	requireNoDuplicates(t, f.svc.List())
}

func TestHandleOnline_ReconnectDrainsOutbox(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	pending := queueOne(t, f, "Taxi")

	mon := connectivity.NewMonitor(okPinger{}, logging.NewNop(), time.Second)
	mon.OnOnline(f.svc.HandleOnline)

	f.conn.set(true)
	mon.SetOnline(ctx, true)

	assert.Equal(t, 0, f.svc.OutboxCount(ctx))
	list := f.svc.List()
	require.Len(t, list, 1)
	assert.False(t, list[0].IsTemporary())
	assert.Equal(t, pending.Title, list[0].Title)
	assert.True(t, pending.Amount.Equal(list[0].Amount))
}

func TestHandleOnline_ReportsFailedPass(t *testing.T) {
	f := newFixture(t, false)
	queueOne(t, f, "Taxi")
	f.remote.setCreate(failWith(&faults.RemoteError{StatusCode: 401, Message: "expired"}))
	f.conn.set(true)

	f.svc.HandleOnline(context.Background())
	require.Len(t, f.notifier.failed, 1)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// ---- load / refresh ----

func TestRefresh_DrainsWritesTheServerAlreadyHas(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	pending := queueOne(t, f, "Taxi")
	calls := f.remote.callCount()

	f.conn.set(true)
	f.remote.list = []models.Record{
		serverRecord("org-1", models.ExpenseInput{ClientRef: pending.ClientRef, Title: "Taxi"}),
		{ID: "srv-other", OrganizationID: "org-1", CreatedAt: fixedNow.Add(-time.Hour)},
	}

	rep, err := f.svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, rep.Results)

	assert.Equal(t, calls, f.remote.callCount())
	assert.Equal(t, 0, f.svc.OutboxCount(ctx))

	list := f.svc.List()
	requireNoDuplicates(t, list)
	assert.Equal(t, []string{"srv-" + pending.ClientRef, "srv-other"}, []string{list[0].ID, list[1].ID})

	stored, _ := f.snapshot.List(ctx, "org-1")
	assert.Len(t, stored, 2)
}

func TestRefresh_FailureKeepsCache(t *testing.T) {
	f := newFixture(t, false)
	pending := queueOne(t, f, "Taxi")
	f.remote.listErr = errNetwork

	_, err := f.svc.Refresh(context.Background())
	require.Error(t, err)
	_, ok := f.cache.Get(pending.ID)
	assert.True(t, ok)
}

func TestRefresh_StaleListDoesNotHideConcurrentCommit(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	pending := queueOne(t, f, "Taxi")
	calls := f.remote.callCount()
	f.conn.set(true)

	// the list is taken before the queued write reaches the server
	started := make(chan struct{})
	block := make(chan struct{})
	f.remote.mu.Lock()
	f.remote.list = nil
	f.remote.listStarted = started
	f.remote.listBlock = block
	f.remote.mu.Unlock()

	refreshed := make(chan error, 1)
	go func() {
		_, err := f.svc.Refresh(ctx)
		refreshed <- err
	}()
	<-started

	resynced := make(chan error, 1)
	go func() {
		_, err := f.svc.ResyncAll(ctx)
		resynced <- err
	}()
	require.Eventually(t, func() bool { return f.remote.callCount() == calls+1 }, time.Second, time.Millisecond)

	close(block)
	for _, ch := range []chan error{refreshed, resynced} {
		select {
		case err := <-ch:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("refresh and resync did not finish")
		}
	}

	assert.Equal(t, calls+1, f.remote.callCount())
	assert.Equal(t, 0, f.svc.OutboxCount(ctx))

	list := f.svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, "srv-"+pending.ClientRef, list[0].ID)
	assert.False(t, list[0].IsTemporary())

	stored, err := f.snapshot.List(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "srv-"+pending.ClientRef, stored[0].ID)
}

func TestRefresh_ColdStartFailureLoadsLocalState(t *testing.T) {
	ctx := context.Background()
	storage := outbox.NewMemoryStorage()

	entry := models.OutboxEntry{TempID: models.TempID("01J0000000000000000000000A"), Payload: input("Taxi", "12.40"), CreatedAt: fixedNow}
	entry.Payload.ClientRef = "01J0000000000000000000000A"
	require.NoError(t, outbox.New(storage, logging.NewNop()).Enqueue(ctx, entry))

	snapshot := newMemSnapshot()
	committed := models.Record{ID: "srv-old", OrganizationID: "org-1", Title: "Hotel", CreatedAt: fixedNow.Add(-time.Hour)}
	require.NoError(t, snapshot.Upsert(ctx, committed))

	c := cache.New()
	svc := NewExpenseService(ExpenseDeps{
		Remote:       &fakeRemote{listErr: errNetwork},
		Outbox:       outbox.New(storage, logging.NewNop()),
		Cache:        c,
		Snapshot:     snapshot,
		Connectivity: &fakeConn{online: true},
		Session:      fakeSession{org: "org-1"},
		Logger:       logging.NewNop(),
	}, WithClock(func() time.Time { return fixedNow }), WithWriteTimeout(time.Second))

	_, err := svc.Refresh(ctx)
	require.Error(t, err)
	assert.Equal(t, faults.KindNetwork, faults.FromError(err).Kind)

	assert.Equal(t, 1, svc.OutboxCount(ctx))
	require.Equal(t, 2, c.Len())

	rec, ok := c.Get(entry.TempID)
	require.True(t, ok)
	assert.True(t, rec.IsTemporary())
	assert.Equal(t, "Taxi", rec.Title)

	_, ok = c.Get("srv-old")
	assert.True(t, ok)
}

func TestResyncAll_CancelledWriteStaysQueued(t *testing.T) {
	f := newFixture(t, false)
	pending := queueOne(t, f, "Taxi")
	f.conn.set(true)

	ctx, cancel := context.WithCancel(context.Background())
	f.remote.setCreate(func(int, models.ExpenseInput) (models.Record, error) {
		cancel()
		return models.Record{}, context.Canceled
	})

	rep, err := f.svc.ResyncAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rep.Count(OutcomeRetained))
	assert.Equal(t, 1, f.svc.OutboxCount(context.Background()))
	assert.Empty(t, f.notifier.discarded)

	_, ok := f.cache.Get(pending.ID)
	assert.True(t, ok)
}

func TestLoad_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	newService := func(remote RemoteStore, online bool) *ExpenseService {
		ob := outbox.New(metadata.NewSQLiteRepository(db), logging.NewNop())
		svc := NewExpenseService(ExpenseDeps{
			Remote:       remote,
			Outbox:       ob,
			Cache:        cache.New(),
			Snapshot:     expenses.NewSQLiteRepository(db),
			Connectivity: &fakeConn{online: online},
			Session:      fakeSession{org: "org-1"},
			Logger:       logging.NewNop(),
		}, WithClock(func() time.Time { return fixedNow }))
		require.NoError(t, svc.Load(ctx))
		return svc
	}

	remote := &fakeRemote{}
	first := newService(remote, true)
	committed, err := first.Create(ctx, input("committed", "20"))
	require.NoError(t, err)

	remote.setCreate(failWith(errNetwork))
	queued, err := first.Create(ctx, input("queued", "150.00"))
	require.NoError(t, err)
	require.Equal(t, StatePendingSync, queued.State)

	second := newService(&fakeRemote{create: failWith(errNetwork)}, false)

	assert.Equal(t, 1, second.OutboxCount(ctx))
	list := second.List()
	require.Len(t, list, 2)
	assert.ElementsMatch(t, []string{queued.Record.ID, committed.Record.ID}, []string{list[0].ID, list[1].ID})

	restored, ok := second.cache.Get(queued.Record.ID)
	require.True(t, ok)
	assert.Equal(t, "queued", restored.Title)
	assert.True(t, restored.Amount.Equal(decimal.RequireFromString("150")))
}
