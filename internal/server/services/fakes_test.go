package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/billsync/internal/dbx"
	"github.com/dmitrijs2005/billsync/internal/server/models"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/expenses"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/invoices"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/organizations"
	"github.com/dmitrijs2005/billsync/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	created *models.User
	err     error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

type fakeOrgsRepo struct {
	created *models.Organization
	err     error
}

func (f *fakeOrgsRepo) Create(_ context.Context, o *models.Organization) (*models.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = o
	return o, nil
}

// fakeExpensesRepo keeps expenses in memory keyed by organization and
// client reference, like the unique constraint of the real table.
type fakeExpensesRepo struct {
	byRef map[string]*models.Expense
	order []*models.Expense
	err   error
}

func (f *fakeExpensesRepo) Create(_ context.Context, e *models.Expense) (*models.Expense, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if f.byRef == nil {
		f.byRef = map[string]*models.Expense{}
	}
	key := e.OrganizationID + "/" + e.ClientRef
	if existing, ok := f.byRef[key]; ok {
		return existing, false, nil
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.byRef[key] = e
	f.order = append([]*models.Expense{e}, f.order...)
	return e, true, nil
}

func (f *fakeExpensesRepo) GetByClientRef(_ context.Context, orgID, ref string) (*models.Expense, error) {
	return f.byRef[orgID+"/"+ref], nil
}

func (f *fakeExpensesRepo) List(_ context.Context, orgID string) ([]*models.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Expense, 0)
	for _, e := range f.order {
		if e.OrganizationID == orgID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeInvoicesRepo struct {
	numbers   map[string]bool
	created   *models.Invoice
	createErr error
	existsErr error
}

func (f *fakeInvoicesRepo) NumberExists(_ context.Context, orgID, number string) (bool, error) {
	return f.numbers[orgID+"/"+number], f.existsErr
}

func (f *fakeInvoicesRepo) Create(_ context.Context, inv *models.Invoice) (*models.Invoice, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = inv
	return inv, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	o *fakeOrgsRepo
	e *fakeExpensesRepo
	i *fakeInvoicesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: &fakeUsersRepo{}, o: &fakeOrgsRepo{}, e: &fakeExpensesRepo{}, i: &fakeInvoicesRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.u }
func (m *fakeRepoManager) Organizations(dbx.DBTX) organizations.Repository { return m.o }
func (m *fakeRepoManager) Expenses(dbx.DBTX) expenses.Repository { return m.e }
func (m *fakeRepoManager) Invoices(dbx.DBTX) invoices.Repository { return m.i }
