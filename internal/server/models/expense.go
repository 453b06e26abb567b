package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID             string
	OrganizationID string
	// ClientRef is the idempotency key supplied by the client; unique per
	// organization.
	ClientRef  string
	Title      string
	Amount     decimal.Decimal
	Status     string
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Invoice struct {
	ID             string
	OrganizationID string
	Number         string
	CustomerName   string
	Amount         decimal.Decimal
	Status         string
	IssuedAt       time.Time
	DueAt          time.Time
	CreatedAt      time.Time
}
