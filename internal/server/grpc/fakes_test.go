package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/billsync/internal/common"
	"github.com/dmitrijs2005/billsync/internal/logging"
	"github.com/dmitrijs2005/billsync/internal/server/auth"
	"github.com/dmitrijs2005/billsync/internal/server/models"
	"github.com/dmitrijs2005/billsync/internal/server/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

const testSecret = "secret"

type fakeUsers struct {
	regResp   *models.User
	regErr    error
	saltResp  []byte
	saltErr   error
	loginResp *services.LoginResult
	loginErr  error
}

func (f *fakeUsers) Register(context.Context, string, []byte, []byte) (*models.User, error) {
	return f.regResp, f.regErr
}
func (f *fakeUsers) GetSalt(context.Context, string) ([]byte, error) {
	return f.saltResp, f.saltErr
}
func (f *fakeUsers) Login(context.Context, string, []byte) (*services.LoginResult, error) {
	return f.loginResp, f.loginErr
}

type fakeExpenses struct {
	byRef   map[string]*models.Expense
	lastOrg string
	err     error
}

func newFakeExpenses() *fakeExpenses {
	return &fakeExpenses{byRef: map[string]*models.Expense{}}
}

func (f *fakeExpenses) Create(_ context.Context, orgID string, p services.ExpenseParams) (*models.Expense, bool, error) {
	f.lastOrg = orgID
	if f.err != nil {
		return nil, false, f.err
	}
	if e, ok := f.byRef[p.ClientRef]; ok {
		return e, false, nil
	}
	e := &models.Expense{
		ID:             "srv-" + p.ClientRef,
		OrganizationID: orgID,
		ClientRef:      p.ClientRef,
		Title:          p.Title,
		Amount:         p.Amount,
		Status:         p.Status,
		OccurredAt:     p.OccurredAt,
	}
	f.byRef[p.ClientRef] = e
	return e, true, nil
}

func (f *fakeExpenses) List(_ context.Context, orgID string) ([]*models.Expense, error) {
	f.lastOrg = orgID
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Expense, 0, len(f.byRef))
	for _, e := range f.byRef {
		out = append(out, e)
	}
	return out, nil
}

type fakeInvoices struct {
	taken map[string]bool
	err   error
}

func (f *fakeInvoices) NumberExists(_ context.Context, _ string, number string) (bool, error) {
	return f.taken[number], f.err
}

func (f *fakeInvoices) Create(_ context.Context, orgID string, p services.InvoiceParams) (*models.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.taken[p.Number] {
		return nil, common.ErrorAlreadyExists
	}
	if f.taken == nil {
		f.taken = map[string]bool{}
	}
	f.taken[p.Number] = true
	return &models.Invoice{
		ID:             "inv-1",
		OrganizationID: orgID,
		Number:         p.Number,
		CustomerName:   p.CustomerName,
		Amount:         p.Amount,
		Status:         "pending",
		DueAt:          p.DueAt,
	}, nil
}

func newServer(u userSvc, e expenseSvc, i invoiceSvc, opts ...Option) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.NewNop(), u, e, i, testSecret, opts...)
}

func mustToken(t *testing.T, userID, orgID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, orgID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return tok
}

// authedCtx is an incoming context that already went through the token check.
func authedCtx(orgID string) context.Context {
	return context.WithValue(context.Background(), claimsKey, &auth.Claims{UserID: "u1", OrganizationID: orgID})
}

func incomingWithToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}
