package organizations

import (
	"context"

	"github.com/dmitrijs2005/billsync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, org *models.Organization) (*models.Organization, error)
}
