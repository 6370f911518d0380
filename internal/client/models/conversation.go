// Package models defines the records exchanged with the chat backend.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var ErrUnknownRole = errors.New("unknown message role")

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch Role(s) {
	case RoleUser, RoleAssistant:
		*r = Role(s)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Message is immutable once received.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a thread of messages between the user and the assistant.
// List endpoints may omit Messages.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LastMessage returns the most recent message, if any.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// DisplayTitle falls back to a placeholder for untitled conversations.
func (c *Conversation) DisplayTitle() string {
	if c.Title == "" {
		return "New conversation"
	}
	return c.Title
}
