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

// ExpenseParams is the validated payload of an expense creation.
type ExpenseParams struct {
	ClientRef  string          `validate:"required,max=64"`
	Title      string          `validate:"required,max=200"`
	Amount     decimal.Decimal `validate:"gt=0"`
	Status     string          `validate:"oneof=pending paid cancelled overdue"`
	OccurredAt time.Time       `validate:"required"`
}

// ExpenseService stores expenses per organization.
type ExpenseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewExpenseService(db *sql.DB, m repomanager.RepositoryManager) *ExpenseService {
	return &ExpenseService{db: db, repomanager: m}
}

// Create stores the expense. It is idempotent on (orgID, ClientRef): a repeated
// call returns the expense stored by the first one and created is false.
func (s *ExpenseService) Create(ctx context.Context, orgID string, p ExpenseParams) (*models.Expense, bool, error) {
	if err := validateStruct(p); err != nil {
		return nil, false, err
	}

	e := &models.Expense{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		ClientRef:      p.ClientRef,
		Title:          p.Title,
		Amount:         p.Amount,
		Status:         p.Status,
		OccurredAt:     p.OccurredAt.UTC(),
	}

	stored, created, err := s.repomanager.Expenses(s.db).Create(ctx, e)
	if err != nil {
		return nil, false, fmt.Errorf("error creating expense: %w", err)
	}
	return stored, created, nil
}

// List returns the organization's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, orgID string) ([]*models.Expense, error) {
	list, err := s.repomanager.Expenses(s.db).List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}
	return list, nil
}
