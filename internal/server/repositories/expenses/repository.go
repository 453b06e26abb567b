package expenses

import (
	"context"

	"github.com/dmitrijs2005/billsync/internal/server/models"
)

type Repository interface {
	// Create inserts e unless the organization already has an expense with
	// the same client reference, in which case the stored one is returned
	// and created is false.
	Create(ctx context.Context, e *models.Expense) (stored *models.Expense, created bool, err error)
	GetByClientRef(ctx context.Context, orgID, clientRef string) (*models.Expense, error)
	// List returns the organization's expenses, newest first.
	List(ctx context.Context, orgID string) ([]*models.Expense, error)
}
