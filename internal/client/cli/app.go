package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/sanguischat/internal/client/api"
	"github.com/dmitrijs2005/sanguischat/internal/client/models"
	"github.com/dmitrijs2005/sanguischat/internal/client/services"
	"github.com/dmitrijs2005/sanguischat/internal/logging"
)

// ChatService is the conversation state the REPL drives.
// *services.ChatService satisfies it.
type ChatService interface {
	Refresh(ctx context.Context) ([]models.Conversation, error)
	Conversations() []models.Conversation
	Active() *models.Conversation
	Select(ctx context.Context, id string) (*models.Conversation, error)
	Load(ctx context.Context, id string) (*models.Conversation, error)
	Send(ctx context.Context, text string) (*models.Conversation, error)
	Delete(ctx context.Context, id string) error
	StartNew()
	Resolve(ref string) (string, error)
	Reset()
}

// Uploader stores a transcript remotely and returns where it went.
type Uploader interface {
	Export(ctx context.Context, conv *models.Conversation) (string, error)
}

// Deps collects what the App needs. Uploader, Expiry and SignedInAt are
// optional.
type Deps struct {
	Auth       services.AuthService
	Chat       ChatService
	Uploader   Uploader
	Expiry     func() (time.Time, bool)
	SignedInAt func(ctx context.Context) (time.Time, bool)
	Logger     logging.Logger
	In         io.Reader
	Out        io.Writer
}

type App struct {
	auth     services.AuthService
	chat     ChatService
	uploader Uploader
	expiry   func() (time.Time, bool)
	since    func(ctx context.Context) (time.Time, bool)
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
}

func NewApp(d Deps) *App {
	a := &App{
		auth:     d.Auth,
		chat:     d.Chat,
		uploader: d.Uploader,
		expiry:   d.Expiry,
		since:    d.SignedInAt,
		log:      d.Logger,
		out:      d.Out,
		now:      time.Now,
	}
	if a.log == nil {
		a.log = logging.Discard()
	}
	in := d.In
	if in == nil {
		in = os.Stdin
	}
	a.reader = bufio.NewReader(in)
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.expiry == nil {
		a.expiry = func() (time.Time, bool) { return time.Time{}, false }
	}
	if a.since == nil {
		a.since = func(context.Context) (time.Time, bool) { return time.Time{}, false }
	}
	return a
}

// Run restores a stored session, then serves commands until the user exits
// or ctx is canceled.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to Sanguis chat (type 'help' for commands)")

	u, err := a.auth.Restore(ctx)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		a.println("Your session has expired. Please log in again.")
		a.log.Debug(ctx, "restore rejected", "error", err)
	case err != nil:
		a.printErr(err)
		a.log.Warn(ctx, "restore failed", "error", err)
	case u != nil:
		a.println("Signed in as", u.Name, "<"+u.Email+">")
		if err := a.List(ctx); err != nil {
			a.printErr(err)
		}
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUser() != nil
}

// status is shown in the prompt: signed-in user and active conversation.
func (a *App) status() string {
	u := a.auth.CurrentUser()
	if u == nil {
		return ""
	}
	s := u.Name
	if s == "" {
		s = u.Email
	}
	if conv := a.chat.Active(); conv != nil {
		s += ": " + truncate(conv.DisplayTitle(), 30)
	}
	return "(" + s + ")"
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) printErr(err error) {
	a.println("Error:", describe(err))
}

// describe turns err into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, services.ErrNotSignedIn):
		return "Please log in first."
	case errors.Is(err, services.ErrEmptyMessage):
		return "Message is empty."
	case errors.Is(err, services.ErrInvalidVerificationLink):
		return "Invalid verification link"
	}
	return api.Message(err, err.Error())
}

// checkSession drops local chat state once the backend has rejected the
// credential.
func (a *App) checkSession(err error) error {
	if errors.Is(err, api.ErrUnauthorized) && !a.isLoggedIn() {
		a.chat.Reset()
		a.println("Your session has ended. Please log in again.")
	}
	return err
}

func (a *App) requireUser() error {
	if !a.isLoggedIn() {
		return services.ErrNotSignedIn
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
