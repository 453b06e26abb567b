package users

import (
	"context"

	"github.com/dmitrijs2005/billsync/internal/server/models"
)

// Repository stores users. Every user belongs to exactly one organization,
// which must exist before Create is called.
type Repository interface {
	// Create returns common.ErrorAlreadyExists when the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for an unknown username.
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
}
