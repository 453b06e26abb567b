package invoices

import (
	"context"

	"github.com/dmitrijs2005/billsync/internal/server/models"
)

type Repository interface {
	NumberExists(ctx context.Context, orgID, number string) (bool, error)
	// Create returns common.ErrorAlreadyExists when the number is taken.
	Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error)
}
