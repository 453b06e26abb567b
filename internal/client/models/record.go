// Package models defines the client-side data models of billsync: expense
// records, their creation payloads, pending outbox entries and invoices.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/billsync/internal/common"
	"github.com/shopspring/decimal"
)

// Status is the payment state of a record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusOverdue:
		return true
	}
	return false
}

// Record is a financial line item as presented to callers.
type Record struct {
	// ID is either the server-issued id or a temporary id (see IsTemporaryID).
	ID string `json:"id"`

	OrganizationID string          `json:"organization_id"`
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	Status         Status          `json:"status"`

	// OccurredAt is the business date of the expense.
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// ClientRef is the idempotency key the record was created with.
	ClientRef string `json:"client_ref,omitempty"`
}

// IsTemporary reports whether the record is still waiting for the server.
func (r Record) IsTemporary() bool {
	return IsTemporaryID(r.ID)
}

// TempID builds the temporary record id for a client reference.
func TempID(clientRef string) string {
	return common.TempIDPrefix + clientRef
}

// IsTemporaryID reports whether id was issued by the client.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, common.TempIDPrefix)
}
