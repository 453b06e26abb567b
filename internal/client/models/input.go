package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseInput is the full creation payload of an expense. It is what the
// outbox stores and what every retry sends.
type ExpenseInput struct {
	Title      string          `json:"title" validate:"required,max=200"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Status     Status          `json:"status" validate:"required,status"`
	OccurredAt time.Time       `json:"occurred_at" validate:"required"`

	// ClientRef is minted once per logical create and reused by every retry.
	ClientRef string `json:"client_ref"`
}

// Validate checks id-independent business rules.
func (in ExpenseInput) Validate() error {
	return validateStruct(in)
}

// PendingRecord builds the optimistic record shown while the write is queued.
func (in ExpenseInput) PendingRecord(orgID string, now time.Time) Record {
	return Record{
		ID:             TempID(in.ClientRef),
		OrganizationID: orgID,
		Title:          in.Title,
		Amount:         in.Amount,
		Status:         in.Status,
		OccurredAt:     in.OccurredAt,
		CreatedAt:      now,
		UpdatedAt:      now,
		ClientRef:      in.ClientRef,
	}
}

// OutboxEntry is one creation not yet confirmed by the server.
type OutboxEntry struct {
	TempID    string       `json:"temp_id"`
	Payload   ExpenseInput `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`
}

// Record returns the optimistic record matching the entry.
func (e OutboxEntry) Record(orgID string) Record {
	r := e.Payload.PendingRecord(orgID, e.CreatedAt)
	r.ID = e.TempID
	return r
}
