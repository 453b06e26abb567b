package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/billsync/internal/client/models"
)

// printNotifier reports background sync failures on the terminal.
type printNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *printNotifier) Discarded(_ context.Context, e models.OutboxEntry, reason error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "\nserver rejected queued expense %q (%s): %v\n", e.Payload.Title, e.TempID, reason)
}

func (n *printNotifier) ResyncFailed(_ context.Context, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "\nbackground sync failed: %v\n", err)
}
