package expenses

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const upsertQuery = `
	INSERT INTO expenses (id, organization_id, client_ref, title, amount, status, occurred_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		organization_id = excluded.organization_id,
		client_ref = excluded.client_ref,
		title = excluded.title,
		amount = excluded.amount,
		status = excluded.status,
		occurred_at = excluded.occurred_at,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
`

func (r *SQLiteRepository) Upsert(ctx context.Context, e models.Record) error {
	_, err := r.db.ExecContext(ctx, upsertQuery,
		e.ID, e.OrganizationID, e.ClientRef, e.Title, e.Amount.String(), string(e.Status),
		toUnix(e.OccurredAt), toUnix(e.CreatedAt), toUnix(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert expense %s: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, orgID string, records []models.Record) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return replaceAll(ctx, r, orgID, records)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return replaceAll(ctx, NewSQLiteRepository(tx), orgID, records)
	})
}

func replaceAll(ctx context.Context, r *SQLiteRepository, orgID string, records []models.Record) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE organization_id = ?`, orgID); err != nil {
		return fmt.Errorf("failed to clear expenses snapshot: %w", err)
	}
	for _, e := range records {
		if e.OrganizationID == "" {
			e.OrganizationID = orgID
		}
		if err := r.Upsert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, orgID string) ([]models.Record, error) {
	query := `
		SELECT id, organization_id, client_ref, title, amount, status, occurred_at, created_at, updated_at
		FROM expenses
		WHERE organization_id = ?
		ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to select expenses: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		var (
			item                           models.Record
			status                         string
			occurredAt, createdAt, updated int64
		)
		if err := rows.Scan(&item.ID, &item.OrganizationID, &item.ClientRef, &item.Title, &item.Amount,
			&status, &occurredAt, &createdAt, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		item.Status = models.Status(status)
		item.OccurredAt = fromUnix(occurredAt)
		item.CreatedAt = fromUnix(createdAt)
		item.UpdatedAt = fromUnix(updated)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("failed to clear expenses: %w", err)
	}
	return nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
