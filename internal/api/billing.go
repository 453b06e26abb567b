package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type RegisterResponse struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Verifier []byte `json:"verifier"`
}

type LoginResponse struct {
	AccessToken    string `json:"access_token"`
	OrganizationID string `json:"organization_id"`
}

// Expense is the server representation of a financial line item.
type Expense struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	ClientRef      string          `json:"client_ref,omitempty"`
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	OccurredAt     time.Time       `json:"occurred_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateExpenseRequest is idempotent on (OrganizationID, ClientRef).
type CreateExpenseRequest struct {
	OrganizationID string          `json:"organization_id"`
	ClientRef      string          `json:"client_ref"`
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
	// Created is false when ClientRef matched an existing expense.
	Created bool `json:"created"`
}

type ListExpensesRequest struct {
	OrganizationID string `json:"organization_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type InvoiceNumberExistsRequest struct {
	OrganizationID string `json:"organization_id"`
	Number         string `json:"number"`
}

type InvoiceNumberExistsResponse struct {
	Exists bool `json:"exists"`
}

type Invoice struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Number         string          `json:"number"`
	CustomerName   string          `json:"customer_name"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	IssuedAt       time.Time       `json:"issued_at"`
	DueAt          time.Time       `json:"due_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

type CreateInvoiceRequest struct {
	OrganizationID string          `json:"organization_id"`
	Number         string          `json:"number"`
	CustomerName   string          `json:"customer_name"`
	Amount         decimal.Decimal `json:"amount"`
	DueAt          time.Time       `json:"due_at"`
}

type CreateInvoiceResponse struct {
	Invoice Invoice `json:"invoice"`
}
