package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_Decode(t *testing.T) {
	raw := `{
		"id": "c1",
		"title": "Blood tests",
		"messages": [
			{"id": "m1", "role": "user", "content": "hi", "timestamp": "2025-01-02T03:04:05Z"},
			{"id": "m2", "role": "assistant", "content": "hello", "timestamp": "2025-01-02T03:04:06Z"}
		],
		"createdAt": "2025-01-02T03:04:05Z",
		"updatedAt": "2025-01-02T03:04:06Z"
	}`

	var c Conversation
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "c1", c.ID)
	require.Len(t, c.Messages, 2)
	assert.Equal(t, RoleAssistant, c.Messages[1].Role)
	assert.Equal(t, 2025, c.CreatedAt.Year())

	last, ok := c.LastMessage()
	require.True(t, ok)
	assert.Equal(t, "hello", last.Content)
}

func TestRole_RejectsUnknownValue(t *testing.T) {
	var m Message
	err := json.Unmarshal([]byte(`{"id":"m1","role":"system","content":"x"}`), &m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestConversation_Helpers(t *testing.T) {
	var c Conversation
	_, ok := c.LastMessage()
	assert.False(t, ok)
	assert.Equal(t, "New conversation", c.DisplayTitle())

	c.Title = "Iron levels"
	assert.Equal(t, "Iron levels", c.DisplayTitle())
}

func TestUser_DecodeOptionalPhone(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","name":"Ann","email":"a@x.io","emailVerified":true,"phoneVerified":false}`), &u))
	assert.Equal(t, "", u.Phone)
	assert.True(t, u.EmailVerified)
}
