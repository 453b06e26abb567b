package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/client/sequence"
)

// AddInvoice prompts for an invoice and creates it with a freshly allocated
// number. Invoices need the server; nothing is queued.
func (a *App) AddInvoice(ctx context.Context) error {
	customer, err := getSimpleText(a.reader, "Enter customer name", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		return err
	}
	due, err := GetDate(a.reader, "Enter due date", now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 30), os.Stdout)
	if err != nil {
		return err
	}

	inv, err := a.invoices.Create(ctx, models.InvoiceInput{CustomerName: customer, Amount: amount, DueAt: due})
	if err != nil {
		if errors.Is(err, sequence.ErrAllocationExhausted) {
			return fmt.Errorf("could not find a free invoice number, try again later: %w", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Invoice %s created for %s\n", inv.Number, inv.CustomerName)
	return nil
}
