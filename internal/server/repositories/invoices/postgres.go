package invoices

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/billsync/internal/common"
	"github.com/dmitrijs2005/billsync/internal/dbx"
	"github.com/dmitrijs2005/billsync/internal/server/models"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/pgerrors"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) NumberExists(ctx context.Context, orgID, number string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE organization_id = $1 AND number = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, orgID, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	query :=
		`INSERT INTO invoices (id, organization_id, number, customer_name, amount, status, issued_at, due_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		inv.ID, inv.OrganizationID, inv.Number, inv.CustomerName, inv.Amount, inv.Status, inv.IssuedAt, inv.DueAt).
		Scan(&inv.CreatedAt)
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}
