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
	Login(ctx context.Context) error
	Bootstrap(ctx context.Context) error
	ListCustomers(ctx context.Context) error
	AddCustomer(ctx context.Context) error
	EditCustomer(ctx context.Context) error
	DeleteCustomer(ctx context.Context) error
	ListCredentials(ctx context.Context) error
	AddCredential(ctx context.Context) error
	EditCredential(ctx context.Context) error
	ShowCredential(ctx context.Context) error
	DeleteCredential(ctx context.Context) error
	Sync(ctx context.Context) error
	Conflicts(ctx context.Context) error
	Resolve(ctx context.Context) error
	ToggleOffline(ctx context.Context) error
	ShowLogs(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the sync client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - bootstrap      — create the first server account
//	  - login          — unlock the vault and authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - customers      — list customers
//	  - addcustomer    — add a customer
//	  - editcustomer   — edit a customer
//	  - delcustomer    — delete a customer
//	  - creds          — list credentials
//	  - addcred        — add a credential
//	  - editcred       — edit a credential
//	  - showcred       — show a credential with its decrypted secret
//	  - delcred        — delete a credential
//	  - sync           — run a push/pull reconciliation pass
//	  - conflicts      — list unresolved conflicts
//	  - resolve        — resolve a conflict (keep-local or use-server)
//	  - offline        — toggle offline availability of a customer
//	  - logs           — show the audit log
//	  - status         — show connectivity and pending-op state
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vs> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		// Everything beyond the auth commands needs an unlocked vault.
		switch cmd {
		case "help", "bootstrap", "login", "exit", "quit":
		default:
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: customers, addcustomer, editcustomer, delcustomer, creds, addcred, editcred, showcred, delcred, sync, conflicts, resolve, offline, logs, status, exit")
			} else {
				printlnFn("Available commands: bootstrap, login, exit")
			}

		case "bootstrap":
			_ = a.Bootstrap(ctx)

		case "login":
			_ = a.Login(ctx)

		case "c", "customers":
			_ = a.ListCustomers(ctx)

		case "addcustomer":
			_ = a.AddCustomer(ctx)

		case "editcustomer":
			_ = a.EditCustomer(ctx)

		case "delcustomer":
			_ = a.DeleteCustomer(ctx)

		case "creds":
			_ = a.ListCredentials(ctx)

		case "addcred":
			_ = a.AddCredential(ctx)

		case "editcred":
			_ = a.EditCredential(ctx)

		case "showcred":
			_ = a.ShowCredential(ctx)

		case "delcred":
			_ = a.DeleteCredential(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "conflicts":
			_ = a.Conflicts(ctx)

		case "resolve":
			_ = a.Resolve(ctx)

		case "offline":
			_ = a.ToggleOffline(ctx)

		case "logs":
			_ = a.ShowLogs(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
