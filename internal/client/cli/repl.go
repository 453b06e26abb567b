package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddExpense(ctx context.Context) error
	List(ctx context.Context) error
	Pending(ctx context.Context) error
	Discard(ctx context.Context, tempID string) error
	Sync(ctx context.Context) error
	Refresh(ctx context.Context) error
	AddInvoice(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the billsync CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF,
// on context cancellation, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account and its organization
//	  - login            authenticate (offline fallback when unreachable)
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - add              record an expense (queued when the server is unreachable)
//	  - l | list         list expenses, pending ones marked
//	  - pending          list queued writes
//	  - discard <id>     drop a queued write
//	  - sync             replay queued writes now
//	  - refresh          reload the list from the server, then sync
//	  - invoice          create an invoice with an allocated number
//	  - status           show session and connectivity
//	  - logout           forget the session, keep queued writes
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("billsync %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add, (l)ist, pending, discard <id>, sync, refresh, invoice, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "add", "l", "list", "pending", "discard", "sync", "refresh", "invoice", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			err = dispatchSession(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatchSession(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "add":
		return a.AddExpense(ctx)
	case "l", "list":
		return a.List(ctx)
	case "pending":
		return a.Pending(ctx)
	case "discard":
		if len(args) == 0 {
			printlnFn("Usage: discard <temporary id>")
			return nil
		}
		return a.Discard(ctx, args[0])
	case "sync":
		return a.Sync(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "invoice":
		return a.AddInvoice(ctx)
	case "logout":
		return a.Logout(ctx)
	}
	return nil
}
