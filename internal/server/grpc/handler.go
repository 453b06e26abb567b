package grpc

import (
	"context"

	"github.com/dmitrijs2005/billsync/internal/api"
	"github.com/dmitrijs2005/billsync/internal/server/models"
	"github.com/dmitrijs2005/billsync/internal/server/services"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	user, err := s.users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "username", req.Username, "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username, "organization_id", user.OrganizationID)
	return &api.RegisterResponse{UserID: user.ID, OrganizationID: user.OrganizationID}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *api.GetSaltRequest) (*api.GetSaltResponse, error) {

	salt, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		s.logger.Error(ctx, "salt lookup failed", "error", err)
		return nil, toStatus(err)
	}

	return &api.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {

	res, err := s.users.Login(ctx, req.Username, req.Verifier)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "username", req.Username, "error", err)
		return nil, toStatus(err)
	}

	return &api.LoginResponse{AccessToken: res.AccessToken, OrganizationID: res.OrganizationID}, nil
}

func (s *GRPCServer) CreateExpense(ctx context.Context, req *api.CreateExpenseRequest) (*api.CreateExpenseResponse, error) {
	orgID, err := organizationFor(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	e, created, err := s.expenses.Create(ctx, orgID, services.ExpenseParams{
		ClientRef:  req.ClientRef,
		Title:      req.Title,
		Amount:     req.Amount,
		Status:     req.Status,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		s.logger.Error(ctx, "create expense failed", "client_ref", req.ClientRef, "error", err)
		return nil, toStatus(err)
	}

	if !created {
		s.logger.Info(ctx, "expense replayed", "client_ref", req.ClientRef, "id", e.ID)
	}
	return &api.CreateExpenseResponse{Expense: expenseToAPI(e), Created: created}, nil
}

func (s *GRPCServer) ListExpenses(ctx context.Context, req *api.ListExpensesRequest) (*api.ListExpensesResponse, error) {
	orgID, err := organizationFor(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	list, err := s.expenses.List(ctx, orgID)
	if err != nil {
		s.logger.Error(ctx, "list expenses failed", "error", err)
		return nil, toStatus(err)
	}

	out := make([]api.Expense, 0, len(list))
	for _, e := range list {
		out = append(out, expenseToAPI(e))
	}
	return &api.ListExpensesResponse{Expenses: out}, nil
}

func (s *GRPCServer) InvoiceNumberExists(ctx context.Context, req *api.InvoiceNumberExistsRequest) (*api.InvoiceNumberExistsResponse, error) {
	orgID, err := organizationFor(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	exists, err := s.invoices.NumberExists(ctx, orgID, req.Number)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.InvoiceNumberExistsResponse{Exists: exists}, nil
}

func (s *GRPCServer) CreateInvoice(ctx context.Context, req *api.CreateInvoiceRequest) (*api.CreateInvoiceResponse, error) {
	orgID, err := organizationFor(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoices.Create(ctx, orgID, services.InvoiceParams{
		Number:       req.Number,
		CustomerName: req.CustomerName,
		Amount:       req.Amount,
		DueAt:        req.DueAt,
	})
	if err != nil {
		s.logger.Warn(ctx, "create invoice failed", "number", req.Number, "error", err)
		return nil, toStatus(err)
	}
	return &api.CreateInvoiceResponse{Invoice: invoiceToAPI(inv)}, nil
}

func expenseToAPI(e *models.Expense) api.Expense {
	return api.Expense{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		ClientRef:      e.ClientRef,
		Title:          e.Title,
		Amount:         e.Amount,
		Status:         e.Status,
		OccurredAt:     e.OccurredAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func invoiceToAPI(i *models.Invoice) api.Invoice {
	return api.Invoice{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		Number:         i.Number,
		CustomerName:   i.CustomerName,
		Amount:         i.Amount,
		Status:         i.Status,
		IssuedAt:       i.IssuedAt,
		DueAt:          i.DueAt,
		CreatedAt:      i.CreatedAt,
	}
}
