package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/billsync/internal/server/models"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceParams is the validated payload of an invoice creation.
type InvoiceParams struct {
	Number       string          `validate:"required,max=64"`
	CustomerName string          `validate:"required,max=200"`
	Amount       decimal.Decimal `validate:"gt=0"`
	DueAt        time.Time       `validate:"required"`
}

// InvoiceService stores invoices. Numbers are allocated by clients and
// only checked for uniqueness here.
type InvoiceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewInvoiceService(db *sql.DB, m repomanager.RepositoryManager) *InvoiceService {
	return &InvoiceService{db: db, repomanager: m, now: time.Now}
}

func (s *InvoiceService) NumberExists(ctx context.Context, orgID, number string) (bool, error) {
	exists, err := s.repomanager.Invoices(s.db).NumberExists(ctx, orgID, number)
	if err != nil {
		return false, fmt.Errorf("error checking invoice number: %w", err)
	}
	return exists, nil
}

// Create stores a pending invoice issued now. A number already used by the
// organization yields common.ErrorAlreadyExists.
func (s *InvoiceService) Create(ctx context.Context, orgID string, p InvoiceParams) (*models.Invoice, error) {
	if err := validateStruct(p); err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Number:         p.Number,
		CustomerName:   p.CustomerName,
		Amount:         p.Amount,
		Status:         "pending",
		IssuedAt:       s.now().UTC(),
		DueAt:          p.DueAt.UTC(),
	}

	stored, err := s.repomanager.Invoices(s.db).Create(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("error creating invoice: %w", err)
	}
	return stored, nil
}
