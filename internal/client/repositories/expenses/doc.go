// Package expenses keeps the last known server snapshot of expenses in the
// local SQLite database.
//
// # Overview
//
// The snapshot holds only records the server has confirmed. Writes that are
// still waiting for the server live in the outbox (internal/client/outbox),
// and the in-memory cache is rebuilt from both on every start, so the
// client can show data while offline.
//
// # Data Model
//
// Amounts are stored as decimal text, timestamps as Unix nanoseconds (UTC).
//
// Key Types
//
//   - type Repository: interface used by the expense service
//   - type SQLiteRepository: SQLite implementation over dbx.DBTX
//
// Typical Usage
//
//	repo := expenses.NewSQLiteRepository(db)
//	_ = repo.ReplaceAll(ctx, orgID, fromServer)
//	list, _ := repo.List(ctx, orgID)
package expenses
