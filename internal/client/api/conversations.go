package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
)

// ListConversations expects a bare JSON array.
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := c.call(ctx, http.MethodGet, "/conversations", nil, &out, "Failed to load conversations."); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Conversation{}
	}
	return out, nil
}

func (c *Client) CreateConversation(ctx context.Context, initialMessage string) (*models.Conversation, error) {
	in := struct {
		InitialMessage string `json:"initialMessage"`
	}{initialMessage}
	var out struct {
		Conversation *models.Conversation `json:"conversation"`
	}
	if err := c.call(ctx, http.MethodPost, "/conversations", in, &out, "Failed to create conversation"); err != nil {
		return nil, err
	}
	if out.Conversation == nil || out.Conversation.ID == "" {
		return nil, shapeErr("missing conversation")
	}
	return out.Conversation, nil
}

func (c *Client) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	return c.conversation(ctx, http.MethodGet, conversationPath(id), nil, "Failed to load conversation details.")
}

// SendMessage appends a user message; the reply carries the whole updated
// conversation, assistant answer included.
func (c *Client) SendMessage(ctx context.Context, id, message string) (*models.Conversation, error) {
	in := struct {
		Message string `json:"message"`
	}{message}
	return c.conversation(ctx, http.MethodPut, conversationPath(id)+"/message", in, "Failed to send message")
}

func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, conversationPath(id), nil, nil, "Failed to delete conversation.")
}

func (c *Client) conversation(ctx context.Context, method, path string, in any, fallback string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := c.call(ctx, method, path, in, &conv, fallback); err != nil {
		return nil, err
	}
	if conv.ID == "" {
		return nil, shapeErr("conversation without id")
	}
	return &conv, nil
}
