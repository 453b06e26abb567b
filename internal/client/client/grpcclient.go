package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/billsync/internal/api"
	"github.com/dmitrijs2005/billsync/internal/client/faults"
	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.BillingServiceClient
	health      healthpb.HealthClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if t := s.token(); t != "" {
		ctx = withAccessToken(ctx, t)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewBillingClient dials endpointURL lazily; no I/O happens until the first call.
func NewBillingClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewBillingServiceClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, userName string, salt []byte, verifier []byte) error {
	req := &api.RegisterRequest{Username: userName, Salt: salt, Verifier: verifier}

	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	resp, err := s.client.GetSalt(ctx, &api.GetSaltRequest{Username: userName})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, verifier []byte) (models.Session, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: userName, Verifier: verifier})
	if err != nil {
		return models.Session{}, s.mapError(err)
	}

	s.SetAccessToken(resp.AccessToken)

	return models.Session{
		Username:       userName,
		OrganizationID: resp.OrganizationID,
		AccessToken:    resp.AccessToken,
	}, nil
}

// Ping asks the standard health service whether the billing service is serving.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) CreateExpense(ctx context.Context, orgID string, in models.ExpenseInput) (models.Record, error) {
	req := &api.CreateExpenseRequest{
		OrganizationID: orgID,
		ClientRef:      in.ClientRef,
		Title:          in.Title,
		Amount:         in.Amount,
		Status:         string(in.Status),
		OccurredAt:     in.OccurredAt,
	}

	resp, err := s.client.CreateExpense(ctx, req)
	if err != nil {
		return models.Record{}, s.mapError(err)
	}
	return recordFromAPI(resp.Expense), nil
}

func (s *GRPCClient) ListExpenses(ctx context.Context, orgID string) ([]models.Record, error) {
	resp, err := s.client.ListExpenses(ctx, &api.ListExpensesRequest{OrganizationID: orgID})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]models.Record, 0, len(resp.Expenses))
	for _, e := range resp.Expenses {
		out = append(out, recordFromAPI(e))
	}
	return out, nil
}

func (s *GRPCClient) InvoiceNumberExists(ctx context.Context, orgID, number string) (bool, error) {
	resp, err := s.client.InvoiceNumberExists(ctx, &api.InvoiceNumberExistsRequest{OrganizationID: orgID, Number: number})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Exists, nil
}

func (s *GRPCClient) CreateInvoice(ctx context.Context, orgID, number string, in models.InvoiceInput) (models.Invoice, error) {
	req := &api.CreateInvoiceRequest{
		OrganizationID: orgID,
		Number:         number,
		CustomerName:   in.CustomerName,
		Amount:         in.Amount,
		DueAt:          in.DueAt,
	}

	resp, err := s.client.CreateInvoice(ctx, req)
	if err != nil {
		return models.Invoice{}, s.mapError(err)
	}
	return invoiceFromAPI(resp.Invoice), nil
}

// mapError keeps the sentinel errors callers match on and attaches the
// HTTP-equivalent status for fault classification.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	remote := &faults.RemoteError{StatusCode: faults.HTTPStatusFromCode(st.Code()), Message: st.Message()}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %w", ErrUnauthorized, remote)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w", ErrUnavailable, remote)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %w", ErrInvalidArgument, remote)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %w", ErrConflict, remote)
	default:
		return fmt.Errorf("rpc error: %w", remote)
	}
}

func recordFromAPI(e api.Expense) models.Record {
	return models.Record{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		Title:          e.Title,
		Amount:         e.Amount,
		Status:         models.Status(e.Status),
		OccurredAt:     e.OccurredAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		ClientRef:      e.ClientRef,
	}
}

func invoiceFromAPI(i api.Invoice) models.Invoice {
	return models.Invoice{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		Number:         i.Number,
		CustomerName:   i.CustomerName,
		Amount:         i.Amount,
		Status:         models.Status(i.Status),
		IssuedAt:       i.IssuedAt,
		DueAt:          i.DueAt,
		CreatedAt:      i.CreatedAt,
	}
}
