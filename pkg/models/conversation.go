package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ValidMessageRoles contains all valid message role values.
var ValidMessageRoles = []MessageRole{
	MessageRoleUser,
	MessageRoleAssistant,
}

// IsValidMessageRole checks if the given role is valid.
func IsValidMessageRole(r MessageRole) bool {
	for _, v := range ValidMessageRoles {
		if v == r {
			return true
		}
	}
	return false
}

// Conversation is an assistant chat session owned by a user.
// Only id and metadata live here; messages are fetched separately.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is a single immutable message in a conversation.
type ChatMessage struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
}
