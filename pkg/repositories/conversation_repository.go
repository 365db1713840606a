package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/database"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// ConversationRepository provides data access for assistant chat sessions
// and their messages.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)
	SaveMessage(ctx context.Context, message *models.ChatMessage) error
	GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.ChatMessage, error)
}

type conversationRepository struct{}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository() ConversationRepository {
	return &conversationRepository{}
}

var _ ConversationRepository = (*conversationRepository)(nil)

func (r *conversationRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return fmt.Errorf("no user scope in context")
	}

	conv.CreatedAt = time.Now()
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}

	query := `
		INSERT INTO conversations (id, user_id, title, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := scope.Conn.Exec(ctx, query, conv.ID, conv.UserID, conv.Title, conv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

func (r *conversationRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, title, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := scope.Conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return conversations, nil
}

func (r *conversationRepository) SaveMessage(ctx context.Context, message *models.ChatMessage) error {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return fmt.Errorf("no user scope in context")
	}

	if !models.IsValidMessageRole(message.Role) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, message.Role)
	}

	message.CreatedAt = time.Now()
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}

	query := `
		INSERT INTO chat_messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := scope.Conn.Exec(ctx, query,
		message.ID, message.ConversationID, message.Role, message.Content, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

func (r *conversationRepository) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.ChatMessage, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM chat_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := scope.Conn.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	return scanChatMessageRows(rows)
}

func scanChatMessageRows(rows pgx.Rows) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage

	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return messages, nil
}
