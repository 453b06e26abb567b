// Package models defines the server-side persistence models of billsync.
package models

import "time"

type User struct {
	ID             string
	UserName       string
	Salt           []byte
	Verifier       []byte
	OrganizationID string
	CreatedAt      time.Time
}

// Organization owns expenses and invoices. Every user gets a personal one
// at registration.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
