package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/billsync/internal/client/faults"
	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/client/sequence"
	"github.com/dmitrijs2005/billsync/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultMaxNumberConflicts = 3
	DefaultConflictDelay      = 10 * time.Millisecond
)

// InvoiceStore is the part of the remote store the invoice service uses.
type InvoiceStore interface {
	sequence.Store
	CreateInvoice(ctx context.Context, orgID, number string, in models.InvoiceInput) (models.Invoice, error)
}

// InvoiceService creates invoices with a freshly allocated number. It needs
// connectivity; nothing is queued.
type InvoiceService struct {
	store         InvoiceStore
	allocator     *sequence.Allocator
	session       SessionProvider
	logger        logging.Logger
	maxConflicts  int
	conflictDelay time.Duration
	writeTimeout  time.Duration
}

func NewInvoiceService(store InvoiceStore, allocator *sequence.Allocator, session SessionProvider, logger logging.Logger) *InvoiceService {
	return &InvoiceService{
		store:         store,
		allocator:     allocator,
		session:       session,
		logger:        logger.With("module", "invoices"),
		maxConflicts:  DefaultMaxNumberConflicts,
		conflictDelay: DefaultConflictDelay,
		writeTimeout:  DefaultWriteTimeout,
	}
}

// Create allocates a number and stores the invoice. When another client
// takes the number between the check and the write, a new number is
// allocated, at most maxConflicts times.
func (s *InvoiceService) Create(ctx context.Context, in models.InvoiceInput) (models.Invoice, error) {
	if err := in.Validate(); err != nil {
		return models.Invoice{}, faults.New(faults.KindValidation, err)
	}
	orgID := s.session.OrganizationID()
	if orgID == "" {
		return models.Invoice{}, faults.New(faults.KindSession, ErrNoSession)
	}

	var (
		inv     models.Invoice
		attempt int
	)
	backoff := retry.WithMaxRetries(uint64(s.maxConflicts-1), retry.NewConstant(s.conflictDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		number, err := s.allocator.Allocate(ctx, orgID)
		if err != nil {
			if errors.Is(err, sequence.ErrAllocationExhausted) {
				return err
			}
			f := faults.FromError(err)
			return &f
		}

		wctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
		created, err := s.store.CreateInvoice(wctx, orgID, number, in)
		cancel()
		if err == nil {
			inv = created
			return nil
		}

		f := faults.FromError(err)
		if f.Kind != faults.KindConflict {
			return &f
		}
		if attempt < s.maxConflicts {
			s.logger.Info(ctx, "invoice number taken at write time, allocating again", "number", number, "attempt", attempt)
		}
		return retry.RetryableError(&f)
	})
	if err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}
