package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a billing document identified by a human-readable number.
type Invoice struct {
	ID             string
	OrganizationID string
	Number         string
	CustomerName   string
	Amount         decimal.Decimal
	Status         Status
	IssuedAt       time.Time
	DueAt          time.Time
	CreatedAt      time.Time
}

type InvoiceInput struct {
	CustomerName string          `validate:"required,max=200"`
	Amount       decimal.Decimal `validate:"gt=0"`
	DueAt        time.Time       `validate:"required"`
}

func (in InvoiceInput) Validate() error {
	return validateStruct(in)
}
