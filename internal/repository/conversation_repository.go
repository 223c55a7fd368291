package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todoapi/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a new conversation owned by userID with the default title.
func (r *ConversationRepository) Create(ctx context.Context, userID uuid.UUID) (*model.Conversation, error) {
	now := time.Now()
	conversation := &model.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     model.DefaultConversationTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetByUserID retrieves all conversations owned by a user.
func (r *ConversationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error) {
	var conversations []model.Conversation
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&conversations)
	if result.Error != nil {
		return nil, result.Error
	}
	return conversations, nil
}

// GetByIDAndOwner retrieves a conversation only when owned by userID.
// An ownership mismatch is reported as ErrConversationNotFound.
func (r *ConversationRepository) GetByIDAndOwner(ctx context.Context, id, userID uuid.UUID) (*model.Conversation, error) {
	var conversation model.Conversation
	result := r.db.WithContext(ctx).First(&conversation, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, result.Error
	}
	if conversation.UserID != userID {
		return nil, ErrConversationNotFound
	}
	return &conversation, nil
}

// AddMessage appends a message to a conversation owned by userID. The
// conversation ID and timestamp are stamped here, whatever the caller sent.
func (r *ConversationRepository) AddMessage(ctx context.Context, conversationID, userID uuid.UUID, message *model.Message) error {
	if !message.Role.Valid() {
		return fmt.Errorf("%w: role must be user, assistant or system", ErrValidation)
	}

	if _, err := r.GetByIDAndOwner(ctx, conversationID, userID); err != nil {
		return err
	}

	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.ConversationID = conversationID
	message.Timestamp = time.Now()

	return r.db.WithContext(ctx).Create(message).Error
}

// GetMessages returns a conversation's messages ordered by ascending
// timestamp, independent of insertion order.
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID, userID uuid.UUID) ([]model.Message, error) {
	if _, err := r.GetByIDAndOwner(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	var messages []model.Message
	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}
