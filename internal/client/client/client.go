package client

import (
	"context"

	"github.com/dmitrijs2005/billsync/internal/client/models"
)

// Client is the remote billing store as seen by the client services.
type Client interface {
	Close() error
	Register(ctx context.Context, username string, salt []byte, verifier []byte) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	// Login authenticates and starts sending the returned token on every call.
	Login(ctx context.Context, username string, verifier []byte) (models.Session, error)
	// SetAccessToken restores a token saved by an earlier Login.
	SetAccessToken(token string)
	Ping(ctx context.Context) error

	CreateExpense(ctx context.Context, orgID string, in models.ExpenseInput) (models.Record, error)
	ListExpenses(ctx context.Context, orgID string) ([]models.Record, error)
	InvoiceNumberExists(ctx context.Context, orgID, number string) (bool, error)
	CreateInvoice(ctx context.Context, orgID, number string, in models.InvoiceInput) (models.Invoice, error)
}
