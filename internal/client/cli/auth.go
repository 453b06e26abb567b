package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/billsync/internal/client/client"
	"github.com/dmitrijs2005/billsync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and a password and creates the account
// together with its organization.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, userName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and signs in, online when possible and
// offline when the server is unreachable. After a successful login the
// record list is rebuilt from local state and, when online, refreshed from
// the server.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, online, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, client.ErrLocalDataNotAvailable) {
			a.setMode(ModeDisabled)
		}
		a.logger.Warn(ctx, "login unsuccessful", "error", err)
		return err
	}

	if err := a.expenses.Load(ctx); err != nil {
		return err
	}

	if !online {
		a.setMode(ModeOffline)
		fmt.Fprintf(a.out, "Logged in offline as %s, writes will be queued\n", session.Username)
		return nil
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", session.Username)

	rep, err := a.expenses.Refresh(ctx)
	if err != nil {
		a.logger.Warn(ctx, "initial refresh failed", "error", err)
		return nil
	}
	a.printReport(rep)
	return nil
}

// Logout forgets the session. Queued writes stay on disk and are replayed
// after the same user signs in again.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	if n := a.expenses.OutboxCount(ctx); n > 0 {
		fmt.Fprintf(a.out, "Logged out, %d write(s) still queued\n", n)
		return nil
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
