package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/vault"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	phase() vault.Phase
	Setup(ctx context.Context) error
	Answers(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Verify(ctx context.Context) error
	NewPassword(ctx context.Context) error
	Cancel(ctx context.Context) error
	List(ctx context.Context) error
	Upload(ctx context.Context) error
	Download(ctx context.Context) error
	Share(ctx context.Context) error
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error
}

// helpFor lists the commands available in the given phase. Commands outside
// this set are still dispatched; the controller rejects them with a phase
// error, so the list is a hint rather than a gate.
func helpFor(p vault.Phase) string {
	switch p {
	case vault.PhaseSetupPassword:
		return "Available commands: setup, exit"
	case vault.PhaseSetupSecurity:
		return "Available commands: answers, exit"
	case vault.PhaseLogin:
		return "Available commands: login, forgot, exit"
	case vault.PhaseReset:
		return "Available commands: verify, newpass, cancel, exit"
	case vault.PhaseVault:
		return "Available commands: (l)ist, upload, download, share, delete, logout, exit"
	default:
		return "Available commands: exit"
	}
}

// runREPL starts a simple read–eval–print loop for the vault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn). Which commands make
// sense depends on the phase — see helpFor. Any errors returned by command
// handlers are ignored here; handlers log their own errors. This keeps the
// REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fv> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn(helpFor(a.phase()))

		case "setup":
			_ = a.Setup(ctx)

		case "answers":
			_ = a.Answers(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.Forgot(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "newpass":
			_ = a.NewPassword(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "download":
			_ = a.Download(ctx)

		case "share":
			_ = a.Share(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
