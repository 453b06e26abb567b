package services

import (
	"github.com/dmitrijs2005/billsync/internal/client/models"
)

// Outcome is what a resync pass did with one queued write.
type Outcome int

const (
	// OutcomeReconciled: the server accepted the write.
	OutcomeReconciled Outcome = iota + 1
	// OutcomeRetained: transient failure, the write stays queued.
	OutcomeRetained
	// OutcomeDiscarded: the server rejected the write for good.
	OutcomeDiscarded
	// OutcomeDropped: the record was already gone from the cache.
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReconciled:
		return "reconciled"
	case OutcomeRetained:
		return "retained"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

type EntryResult struct {
	TempID  string
	Outcome Outcome
	// Record is set for OutcomeReconciled.
	Record models.Record
	Err    error
}

// Report lists per-entry results of one resync pass in outbox order.
type Report struct {
	Results []EntryResult
}

func (r *Report) add(res EntryResult) {
	r.Results = append(r.Results, res)
}

func (r *Report) retainAll(entries []models.OutboxEntry, err error) {
	for _, e := range entries {
		r.add(EntryResult{TempID: e.TempID, Outcome: OutcomeRetained, Err: err})
	}
}

func (r Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
