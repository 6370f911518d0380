package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sanguischat/internal/client/export"
	"github.com/dmitrijs2005/sanguischat/internal/client/models"
)

var getMultiline = GetMultiline

// List reloads and prints the conversation list. The active conversation is
// marked with '*'.
func (a *App) List(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	list, err := a.chat.Refresh(ctx)
	if err != nil {
		return a.checkSession(err)
	}
	if len(list) == 0 {
		a.println("No conversations yet. Type '> your message' to start one.")
		return nil
	}

	var activeID string
	if conv := a.chat.Active(); conv != nil {
		activeID = conv.ID
	}
	for i, conv := range list {
		mark := " "
		if conv.ID == activeID {
			mark = "*"
		}
		line := fmt.Sprintf("%s%3d. %s", mark, i+1, truncate(conv.DisplayTitle(), 40))
		if last, ok := conv.LastMessage(); ok {
			line += "  | " + truncate(last.Content, 40)
		}
		if !conv.UpdatedAt.IsZero() {
			line += "  (" + conv.UpdatedAt.Local().Format(time.DateOnly) + ")"
		}
		a.println(line)
		a.log.Debug(ctx, "conversation", "n", i+1, "id", conv.ID)
	}
	return nil
}

// Open makes a conversation active and prints its messages. ref is an id or
// a position from the last listing.
func (a *App) Open(ctx context.Context, ref string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	id, err := a.chat.Resolve(ref)
	if err != nil {
		return err
	}
	conv, err := a.chat.Select(ctx, id)
	if err != nil {
		return a.checkSession(err)
	}
	a.printConversation(conv)
	return nil
}

// New clears the active conversation; the next message starts a new one.
func (a *App) New(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	a.chat.StartNew()
	a.println("Started a new conversation. Type '> your message' to send the first message.")
	return nil
}

// Send posts text to the active conversation (or starts one) and prints the
// assistant's reply. Empty text opens a multi-line editor.
func (a *App) Send(ctx context.Context, text string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	if text == "" {
		var err error
		text, err = getMultiline(a.reader, "Type your message", a.out)
		if err != nil {
			return err
		}
	}

	a.println("Thinking...")
	conv, err := a.chat.Send(ctx, text)
	if err != nil {
		return a.checkSession(err)
	}
	if last, ok := conv.LastMessage(); ok && last.Role == models.RoleAssistant {
		a.printMessage(last)
	}
	return nil
}

// History prints all messages of the active conversation.
func (a *App) History(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	conv := a.chat.Active()
	if conv == nil {
		a.println("No active conversation. Use 'open <n>' or start one with '> your message'.")
		return nil
	}
	a.printConversation(conv)
	return nil
}

// Delete removes a conversation after confirmation.
func (a *App) Delete(ctx context.Context, ref string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	id, err := a.chat.Resolve(ref)
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, "Are you sure you want to delete this conversation?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.chat.Delete(ctx, id); err != nil {
		return a.checkSession(err)
	}
	a.println("Conversation deleted.")
	return nil
}

// Export saves a transcript. With a file name it is written locally;
// otherwise it is uploaded when an uploader is configured, or written to a
// default file in the working directory.
func (a *App) Export(ctx context.Context, ref, file string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	id, err := a.chat.Resolve(ref)
	if err != nil {
		return err
	}
	conv, err := a.chat.Load(ctx, id)
	if err != nil {
		return a.checkSession(err)
	}

	if file == "" && a.uploader != nil {
		key, err := a.uploader.Export(ctx, conv)
		if err != nil {
			return err
		}
		a.println("Transcript uploaded to", key)
		return nil
	}

	if file == "" {
		file = export.DefaultFileName(conv, a.now())
	}
	if err := export.ToFile(file, conv); err != nil {
		return err
	}
	a.println("Transcript saved to", file)
	return nil
}

func (a *App) printConversation(conv *models.Conversation) {
	a.println("==", conv.DisplayTitle(), "==")
	if len(conv.Messages) == 0 {
		a.println("(no messages)")
	}
	for _, m := range conv.Messages {
		a.printMessage(m)
	}
}

func (a *App) printMessage(m models.Message) {
	who := "You"
	if m.Role == models.RoleAssistant {
		who = "Assistant"
	}
	if m.Timestamp.IsZero() {
		a.printf("%s:\n%s\n\n", who, m.Content)
		return
	}
	a.printf("%s (%s):\n%s\n\n", who, m.Timestamp.Local().Format(time.Kitchen), m.Content)
}
