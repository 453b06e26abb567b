package organizations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/billsync/internal/dbx"
	"github.com/dmitrijs2005/billsync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	query :=
		`INSERT INTO organizations (id, name)
         VALUES ($1, $2)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, org.ID, org.Name).Scan(&org.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return org, nil
}
