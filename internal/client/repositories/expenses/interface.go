package expenses

import (
	"context"

	"github.com/dmitrijs2005/billsync/internal/client/models"
)

type Repository interface {
	// ReplaceAll swaps the snapshot of orgID for records atomically.
	ReplaceAll(ctx context.Context, orgID string, records []models.Record) error
	// Upsert stores one confirmed record.
	Upsert(ctx context.Context, r models.Record) error
	// List returns the snapshot of orgID, newest first.
	List(ctx context.Context, orgID string) ([]models.Record, error)
	// Clear drops every stored record.
	Clear(ctx context.Context) error
}
