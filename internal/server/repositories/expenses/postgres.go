package expenses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/billsync/internal/common"
	"github.com/dmitrijs2005/billsync/internal/dbx"
	"github.com/dmitrijs2005/billsync/internal/server/models"
)

const selectColumns = `id, organization_id, client_ref, title, amount, status, occurred_at, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Expense) (*models.Expense, bool, error) {
	query :=
		`INSERT INTO expenses (id, organization_id, client_ref, title, amount, status, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (organization_id, client_ref) DO NOTHING
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.OrganizationID, e.ClientRef, e.Title, e.Amount, e.Status, e.OccurredAt).
		Scan(&e.CreatedAt, &e.UpdatedAt)

	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	existing, err := r.GetByClientRef(ctx, e.OrganizationID, e.ClientRef)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PostgresRepository) GetByClientRef(ctx context.Context, orgID, clientRef string) (*models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses
		 WHERE organization_id = $1 AND client_ref = $2
		 `

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, orgID, clientRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, orgID string) ([]*models.Expense, error) {
	query := `SELECT ` + selectColumns + ` FROM expenses
		 WHERE organization_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (*models.Expense, error) {
	e := &models.Expense{}
	err := s.Scan(&e.ID, &e.OrganizationID, &e.ClientRef, &e.Title, &e.Amount, &e.Status, &e.OccurredAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
