package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/billsync/internal/client/faults"
	"github.com/dmitrijs2005/billsync/internal/client/models"
	"github.com/dmitrijs2005/billsync/internal/client/services"
)

var now = time.Now

// AddExpense prompts for an expense and creates it. When the server cannot
// be reached the expense is queued and shown as pending.
func (a *App) AddExpense(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "Enter amount", os.Stdout)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "Enter status (pending, paid, cancelled, overdue) [pending]", os.Stdout)
	if err != nil {
		return err
	}
	if status == "" {
		status = string(models.StatusPending)
	}
	occurred, err := GetDate(a.reader, "Enter date", now().UTC().Truncate(24*time.Hour), os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.expenses.Create(ctx, models.ExpenseInput{
		Title:      title,
		Amount:     amount,
		Status:     models.Status(status),
		OccurredAt: occurred,
	})
	if err != nil {
		var f *faults.Fault
		if errors.As(err, &f) {
			return fmt.Errorf("%s error: %w", f.Kind, f.Raw)
		}
		return err
	}

	switch res.State {
	case services.StatePendingSync:
		fmt.Fprintf(a.out, "Saved offline as %s, will sync when the server is reachable\n", res.Record.ID)
	default:
		fmt.Fprintf(a.out, "Saved as %s\n", res.Record.ID)
	}
	return nil
}

// List prints the cached records, newest first.
func (a *App) List(ctx context.Context) error {
	records := a.expenses.List()
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No expenses")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tAMOUNT\tSTATUS\t")
	for _, r := range records {
		id := r.ID
		if r.IsTemporary() {
			id += " (pending sync)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", id, r.OccurredAt.Format(DateLayout), r.Title, r.Amount.StringFixed(2), r.Status)
	}
	return tw.Flush()
}

// Pending prints the queued writes.
func (a *App) Pending(ctx context.Context) error {
	entries := a.expenses.Pending(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Nothing to sync")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMP ID\tQUEUED AT\tTITLE\tAMOUNT\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", e.TempID, e.CreatedAt.Local().Format(time.DateTime), e.Payload.Title, e.Payload.Amount.StringFixed(2))
	}
	return tw.Flush()
}

// Discard drops a queued write without sending it.
func (a *App) Discard(ctx context.Context, tempID string) error {
	if err := a.expenses.DiscardPending(ctx, tempID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Discarded %s\n", tempID)
	return nil
}

// Sync replays the queued writes now.
func (a *App) Sync(ctx context.Context) error {
	rep, err := a.expenses.ResyncAll(ctx)
	if err != nil {
		return err
	}
	a.printReport(rep)
	return nil
}

// Refresh reloads the list from the server and replays the queue.
func (a *App) Refresh(ctx context.Context) error {
	rep, err := a.expenses.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printReport(rep)
	fmt.Fprintf(a.out, "%d expense(s) loaded\n", len(a.expenses.List()))
	return nil
}

// Status prints who is signed in and whether the server is reachable.
func (a *App) Status(ctx context.Context) error {
	s := a.auth.Session()
	user := "not logged in"
	if s.Active() {
		user = s.Username
	}
	online := "offline"
	if a.monitor.IsOnline() {
		online = "online"
	}
	fmt.Fprintf(a.out, "user: %s\nserver: %s (%s)\nqueued writes: %d\n", user, a.config.ServerEndpointAddr, online, a.expenses.OutboxCount(ctx))
	return nil
}

func (a *App) printReport(rep services.Report) {
	if len(rep.Results) == 0 {
		return
	}
	fmt.Fprintf(a.out, "sync: %d reconciled, %d retained, %d discarded, %d dropped\n",
		rep.Count(services.OutcomeReconciled),
		rep.Count(services.OutcomeRetained),
		rep.Count(services.OutcomeDiscarded),
		rep.Count(services.OutcomeDropped),
	)
}

// status is the prompt suffix: "(user mode)".
func (a *App) status() string {
	s := ""
	if sess := a.auth.Session(); sess.Active() {
		s = sess.Username + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if n := a.expenses.OutboxCount(context.Background()); n > 0 {
		s += fmt.Sprintf(" +%d", n)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
