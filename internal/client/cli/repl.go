package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	GoogleLogin(ctx context.Context, idToken string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Profile(ctx context.Context) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context) error
	List(ctx context.Context) error
	Open(ctx context.Context, ref string) error
	New(ctx context.Context) error
	Send(ctx context.Context, text string) error
	History(ctx context.Context) error
	Delete(ctx context.Context, ref string) error
	Export(ctx context.Context, ref, file string) error
}

const (
	helpSignedOut = "Available commands: register, login, google [id-token], verify-email <token>, help, exit"
	helpSignedIn  = "Available commands: (l)ist, open <n|id>, new, send <text> (or '> text'), history, " +
		"delete <n|id>, export <n|id> [file], me, profile, resend-verification, verify-email <token>, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the chat CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. A line starting with '>' sends the rest of it
// as a message. Unknown commands are reported back to the user. The loop
// exits on EOF, when ctx is canceled, or when the user types "exit" or "quit".
//
// Prompts, usage lines and errors go to out, the same writer the commands
// print to. Errors returned by command handlers are printed inline; none of
// them ends the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	printlnFn := func(args ...any) { fmt.Fprintln(out, args...) }
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", describe(err))
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "chat %s> ", statusFn())

		line, err := readLine(reader)
		if err != nil {
			printlnFn()
			return
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			report(a.Send(ctx, strings.TrimSpace(line[1:])))
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		args := strings.Fields(rest)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "google":
			report(a.GoogleLogin(ctx, rest))

		case "logout":
			report(a.Logout(ctx))

		case "me":
			report(a.Me(ctx))

		case "profile":
			report(a.Profile(ctx))

		case "verify-email":
			report(a.VerifyEmail(ctx, rest))

		case "resend-verification":
			report(a.ResendVerification(ctx))

		case "l", "list":
			report(a.List(ctx))

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <n|id>")
				continue
			}
			report(a.Open(ctx, args[0]))

		case "new":
			report(a.New(ctx))

		case "send":
			report(a.Send(ctx, rest))

		case "history":
			report(a.History(ctx))

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <n|id>")
				continue
			}
			report(a.Delete(ctx, args[0]))

		case "export":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: export <n|id> [file]")
				continue
			}
			file := ""
			if len(args) == 2 {
				file = args[1]
			}
			report(a.Export(ctx, args[0], file))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
