// Package outbox is the durable queue of expense creations that the server
// has not confirmed yet.
//
// The whole queue is stored as one JSON document under a single key of a
// Storage, newest entry first. Every mutation writes the complete new list
// and only then swaps the in-memory copy, so a failed write leaves both the
// stored and the in-memory queue as they were.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/logging"
)

// DefaultKey is the storage key the queue is kept under.
const DefaultKey = "outbox"

// Storage is a byte-oriented key/value store. Get returns (nil, nil) for a
// missing key. The metadata repository satisfies it.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Outbox is the persisted queue of writes waiting for the server, newest
// first. It is safe for concurrent use.
type Outbox struct {
	storage Storage
	key     string
	logger  logging.Logger

	mu      sync.Mutex
	loaded  bool
	entries []models.OutboxEntry
}

// New returns an outbox over storage. Call Load before use; operations on
// an unloaded outbox load it first.
func New(storage Storage, logger logging.Logger) *Outbox {
	return &Outbox{storage: storage, key: DefaultKey, logger: logger.With("module", "outbox")}
}

// Load reads the queue from storage. Unparsable data is logged and treated
// as an empty queue; the raw bytes are copied to "<key>.corrupt" before they
// can be overwritten. A storage read failure is logged and the queue reads
// as empty, but stays unloaded: the next mutation retries the read and fails
// instead of overwriting entries it could not see.
func (o *Outbox) Load(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.load(ctx); err != nil {
		o.logger.Warn(ctx, "outbox unreadable, treating as empty", "key", o.key, "error", err)
	}
	return nil
}

func (o *Outbox) load(ctx context.Context) error {
	data, err := o.storage.Get(ctx, o.key)
	if err != nil {
		o.entries = nil
		return fmt.Errorf("failed to read outbox: %w", err)
	}

	o.loaded = true
	o.entries = nil
	if len(data) == 0 {
		return nil
	}

	var entries []models.OutboxEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		o.logger.Warn(ctx, "outbox corrupted, starting empty", "key", o.key, "error", err)
		if err := o.storage.Set(ctx, o.key+".corrupt", data); err != nil {
			o.logger.Error(ctx, "failed to keep corrupted outbox copy", "error", err)
		}
		return nil
	}

	o.entries = entries
	o.logger.Debug(ctx, "outbox loaded", "pending", len(entries))
	return nil
}

func (o *Outbox) ensureLoaded(ctx context.Context) error {
	if o.loaded {
		return nil
	}
	return o.load(ctx)
}

// Enqueue puts entry at the front of the queue and persists it. An existing
// entry with the same TempID is replaced.
func (o *Outbox) Enqueue(ctx context.Context, entry models.OutboxEntry) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.ensureLoaded(ctx); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", entry.TempID, err)
	}

	next := make([]models.OutboxEntry, 0, len(o.entries)+1)
	next = append(next, entry)
	for _, e := range o.entries {
		if e.TempID != entry.TempID {
			next = append(next, e)
		}
	}

	if err := o.persist(ctx, next); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", entry.TempID, err)
	}
	o.entries = next
	return nil
}

// Dequeue removes the entry with tempID. Removing an absent entry is a no-op.
func (o *Outbox) Dequeue(ctx context.Context, tempID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.ensureLoaded(ctx); err != nil {
		return fmt.Errorf("failed to dequeue %s: %w", tempID, err)
	}

	idx := o.indexOf(tempID)
	if idx < 0 {
		return nil
	}

	next := make([]models.OutboxEntry, 0, len(o.entries)-1)
	next = append(next, o.entries[:idx]...)
	next = append(next, o.entries[idx+1:]...)

	if err := o.persist(ctx, next); err != nil {
		return fmt.Errorf("failed to dequeue %s: %w", tempID, err)
	}
	o.entries = next
	return nil
}

// List returns a snapshot of the queue, newest first.
func (o *Outbox) List(ctx context.Context) []models.OutboxEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.ensureLoaded(ctx)

	out := make([]models.OutboxEntry, len(o.entries))
	copy(out, o.entries)
	return out
}

// Contains reports whether tempID is still queued.
func (o *Outbox) Contains(ctx context.Context, tempID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.ensureLoaded(ctx)
	return o.indexOf(tempID) >= 0
}

// Count returns the number of queued entries.
func (o *Outbox) Count(ctx context.Context) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.ensureLoaded(ctx)
	return len(o.entries)
}

func (o *Outbox) indexOf(tempID string) int {
	for i, e := range o.entries {
		if e.TempID == tempID {
			return i
		}
	}
	return -1
}

func (o *Outbox) persist(ctx context.Context, entries []models.OutboxEntry) error {
	if entries == nil {
		entries = []models.OutboxEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return o.storage.Set(ctx, o.key, data)
}
