// Package sequence mints human-readable document numbers such as
// INV-20240115-0042 that are unique within an organization.
//
// Allocation is probe-and-retry: a candidate is checked against the remote
// store and regenerated on collision, up to a fixed number of attempts. The
// store still enforces uniqueness at write time, so a collision there means
// the caller should allocate again.
package sequence

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

var (
	// ErrAllocationExhausted means every attempt produced a number that is
	// already taken.
	ErrAllocationExhausted = errors.New("sequence: allocation space exhausted")

	errCollision = errors.New("sequence: candidate already exists")
)

const (
	DefaultPrefix      = "INV"
	DefaultWidth       = 4
	DefaultMaxAttempts = 10
	DefaultDelay       = 10 * time.Millisecond
)

// Store answers whether a number is already used within a scope.
type Store interface {
	InvoiceNumberExists(ctx context.Context, orgID, number string) (bool, error)
}

// SuffixFunc returns a number in [0, limit).
type SuffixFunc func(limit int64) (int64, error)

type Allocator struct {
	store       Store
	prefix      string
	width       int
	maxAttempts int
	delay       time.Duration
	now         func() time.Time
	suffix      SuffixFunc
}

type Option func(*Allocator)

func WithPrefix(p string) Option {
	return func(a *Allocator) { a.prefix = p }
}

func WithWidth(w int) Option {
	return func(a *Allocator) { a.width = w }
}

func WithMaxAttempts(n int) Option {
	return func(a *Allocator) { a.maxAttempts = n }
}

// WithDelay sets the pause between attempts. Non-positive values fall back
// to one nanosecond.
func WithDelay(d time.Duration) Option {
	return func(a *Allocator) { a.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(a *Allocator) { a.now = now }
}

func WithSuffix(fn SuffixFunc) Option {
	return func(a *Allocator) { a.suffix = fn }
}

func NewAllocator(store Store, opts ...Option) *Allocator {
	a := &Allocator{
		store:       store,
		prefix:      DefaultPrefix,
		width:       DefaultWidth,
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultDelay,
		now:         time.Now,
		suffix:      randomSuffix,
	}
	for _, o := range opts {
		o(a)
	}
	if a.maxAttempts < 1 {
		a.maxAttempts = 1
	}
	if a.width < 1 {
		a.width = DefaultWidth
	}
	if a.delay <= 0 {
		a.delay = time.Nanosecond
	}
	return a
}

// Candidate formats a number for the given day and suffix.
func (a *Allocator) Candidate(day time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%0*d", a.prefix, day.UTC().Format("20060102"), a.width, n)
}

// Allocate returns a number not present in scope at the time of the check.
// It makes at most maxAttempts existence probes. A probe error stops
// allocation and is returned as is.
func (a *Allocator) Allocate(ctx context.Context, scope string) (string, error) {
	if strings.TrimSpace(scope) == "" {
		return "", errors.New("sequence: empty scope")
	}

	limit := pow10(a.width)
	backoff := retry.WithMaxRetries(uint64(a.maxAttempts-1), retry.NewConstant(a.delay))

	var number string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		n, err := a.suffix(limit)
		if err != nil {
			return fmt.Errorf("sequence: suffix: %w", err)
		}
		candidate := a.Candidate(a.now(), n)

		exists, err := a.store.InvoiceNumberExists(ctx, scope, candidate)
		if err != nil {
			return fmt.Errorf("sequence: probe %s: %w", candidate, err)
		}
		if exists {
			return retry.RetryableError(errCollision)
		}
		number = candidate
		return nil
	})

	switch {
	case err == nil:
		return number, nil
	case errors.Is(err, errCollision):
		return "", ErrAllocationExhausted
	default:
		return "", err
	}
}

func randomSuffix(limit int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(limit))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

func pow10(w int) int64 {
	p := int64(1)
	for i := 0; i < w; i++ {
		p *= 10
	}
	return p
}
