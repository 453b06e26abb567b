package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/billsync/internal/dbx"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/invoices"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/organizations"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so that services can
// run them inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Organizations(db dbx.DBTX) organizations.Repository
	Expenses(db dbx.DBTX) expenses.Repository
	Invoices(db dbx.DBTX) invoices.Repository
}
