package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
	"github.com/agrimind-ai/agrimind-engine/pkg/testhelpers"
)

func TestConversationRepository_CreateAndGetByUser(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	userID := uuid.New()
	ctx, cleanup := testhelpers.ScopedContext(t, engineDB.DB, userID.String())
	defer cleanup()

	repo := NewConversationRepository()

	first := &models.Conversation{UserID: userID, Title: "Crop planning"}
	require.NoError(t, repo.CreateConversation(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)

	second := &models.Conversation{UserID: userID, Title: "Irrigation questions"}
	require.NoError(t, repo.CreateConversation(ctx, second))

	conversations, err := repo.GetByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	// Newest first.
	assert.Equal(t, second.ID, conversations[0].ID)
	assert.Equal(t, first.ID, conversations[1].ID)
}

func TestConversationRepository_MessagesChronological(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	userID := uuid.New()
	ctx, cleanup := testhelpers.ScopedContext(t, engineDB.DB, userID.String())
	defer cleanup()

	repo := NewConversationRepository()

	conv := &models.Conversation{UserID: userID, Title: "Advice"}
	require.NoError(t, repo.CreateConversation(ctx, conv))

	contents := []struct {
		role    models.MessageRole
		content string
	}{
		{models.MessageRoleUser, "How can I cut costs?"},
		{models.MessageRoleAssistant, "Start with your largest expense."},
		{models.MessageRoleUser, "That would be feed."},
	}
	for _, c := range contents {
		require.NoError(t, repo.SaveMessage(ctx, &models.ChatMessage{
			ConversationID: conv.ID,
			Role:           c.role,
			Content:        c.content,
		}))
	}

	messages, err := repo.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, c := range contents {
		assert.Equal(t, c.role, messages[i].Role)
		assert.Equal(t, c.content, messages[i].Content)
	}
}

func TestConversationRepository_SaveMessage_InvalidRole(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	ctx, cleanup := testhelpers.ScopedContext(t, engineDB.DB, uuid.NewString())
	defer cleanup()

	err := NewConversationRepository().SaveMessage(ctx, &models.ChatMessage{
		ConversationID: uuid.New(),
		Role:           "system",
		Content:        "ignored",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestConversationRepository_GetMessages_EmptyConversation(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	ctx, cleanup := testhelpers.ScopedContext(t, engineDB.DB, uuid.NewString())
	defer cleanup()

	messages, err := NewConversationRepository().GetMessages(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, messages)
}
