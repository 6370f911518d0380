package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
	"github.com/dmitrijs2005/sanguischat/internal/logging"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoSuchChat   = errors.New("conversation not found")
)

// ChatAPI is the part of the remote API the chat service uses.
// *api.Client satisfies it.
type ChatAPI interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	CreateConversation(ctx context.Context, initialMessage string) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	SendMessage(ctx context.Context, id, message string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
}

// ChatService keeps the conversation list and at most one active
// conversation. Returned values are copies; mutating them does not affect
// the service.
type ChatService struct {
	api ChatAPI
	log logging.Logger

	mu     sync.Mutex
	list   []models.Conversation
	active *models.Conversation
}

func NewChatService(a ChatAPI, log logging.Logger) *ChatService {
	return &ChatService{api: a, log: log}
}

// Refresh replaces the conversation list with the backend's.
func (c *ChatService) Refresh(ctx context.Context) ([]models.Conversation, error) {
	list, err := c.api.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
	return c.Conversations(), nil
}

func (c *ChatService) Conversations() []models.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Conversation, len(c.list))
	for i := range c.list {
		out[i] = *cloneConversation(&c.list[i])
	}
	return out
}

// Active returns the active conversation, or nil.
func (c *ChatService) Active() *models.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneConversation(c.active)
}

// Select makes id the active conversation, loading it in full. Selecting
// the active conversation again is a no-op. On failure nothing is active.
func (c *ChatService) Select(ctx context.Context, id string) (*models.Conversation, error) {
	c.mu.Lock()
	if c.active != nil && c.active.ID == id {
		defer c.mu.Unlock()
		return cloneConversation(c.active), nil
	}
	c.mu.Unlock()

	conv, err := c.api.GetConversation(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.active = nil
		return nil, err
	}
	c.active = conv
	return cloneConversation(conv), nil
}

// Load fetches a conversation in full without changing the active one.
// The active conversation is served from memory.
func (c *ChatService) Load(ctx context.Context, id string) (*models.Conversation, error) {
	c.mu.Lock()
	if c.active != nil && c.active.ID == id {
		defer c.mu.Unlock()
		return cloneConversation(c.active), nil
	}
	c.mu.Unlock()
	return c.api.GetConversation(ctx, id)
}

// Send posts text to the active conversation, or starts a new one with it
// when nothing is active. The reply carries the updated conversation.
func (c *ChatService) Send(ctx context.Context, text string) (*models.Conversation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	var activeID string
	if c.active != nil {
		activeID = c.active.ID
	}
	c.mu.Unlock()

	if activeID == "" {
		return c.create(ctx, text)
	}

	conv, err := c.api.SendMessage(ctx, activeID, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = conv
	for i := range c.list {
		if c.list[i].ID == activeID {
			c.list[i] = *cloneConversation(conv)
		}
	}
	return cloneConversation(conv), nil
}

func (c *ChatService) create(ctx context.Context, text string) (*models.Conversation, error) {
	conv, err := c.api.CreateConversation(ctx, text)
	if err != nil {
		return nil, err
	}
	c.log.Debug(ctx, "conversation created", "conversation_id", conv.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = append([]models.Conversation{*cloneConversation(conv)}, c.list...)
	c.active = conv
	return cloneConversation(conv), nil
}

// Delete removes the conversation remotely and from the list. If it was
// active, nothing is active afterwards.
func (c *ChatService) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteConversation(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.list[:0]
	for _, conv := range c.list {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	c.list = kept
	if c.active != nil && c.active.ID == id {
		c.active = nil
	}
	return nil
}

// StartNew clears the active conversation; the next Send creates one.
func (c *ChatService) StartNew() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}

// Resolve finds a conversation by id or by its 1-based position in the
// list. Unknown ids are passed through for the backend to judge.
func (c *ChatService) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoSuchChat
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, conv := range c.list {
		if conv.ID == ref {
			return conv.ID, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(c.list) {
		return c.list[n-1].ID, nil
	}
	return ref, nil
}

// Reset forgets all conversation state, e.g. after sign-out.
func (c *ChatService) Reset() {
	c.mu.Lock()
	c.list = nil
	c.active = nil
	c.mu.Unlock()
}

func cloneConversation(conv *models.Conversation) *models.Conversation {
	if conv == nil {
		return nil
	}
	cp := *conv
	cp.Messages = append([]models.Message(nil), conv.Messages...)
	return &cp
}
