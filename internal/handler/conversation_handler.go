package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"todoapi/internal/model"
	"todoapi/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatAgent produces an assistant reply for a conversation history.
// Implemented by agent.ChatService.
type ChatAgent interface {
	Reply(ctx context.Context, history []model.Message) (string, error)
}

type ConversationHandler struct {
	convRepo *repository.ConversationRepository
	chat     ChatAgent
}

// NewConversationHandler wires the conversation store and an optional chat
// agent. With a nil agent the chat endpoint reports upstream failure.
func NewConversationHandler(convRepo *repository.ConversationRepository, chat ChatAgent) *ConversationHandler {
	return &ConversationHandler{convRepo: convRepo, chat: chat}
}

type MessageRequest struct {
	Role    model.Role `json:"role" binding:"required"`
	Content string     `json:"content" binding:"required"`
}

type ChatRequest struct {
	Content string `json:"content" binding:"required"`
}

type ConversationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

func toConversationResponse(conversation *model.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        conversation.ID.String(),
		UserID:    conversation.UserID.String(),
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}

func toMessageResponse(message *model.Message) MessageResponse {
	return MessageResponse{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID.String(),
		Role:           string(message.Role),
		Content:        message.Content,
		Timestamp:      message.Timestamp,
	}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversation, err := h.convRepo.Create(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, toConversationResponse(conversation))
}

func (h *ConversationHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := h.convRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversations"})
		return
	}

	response := make([]ConversationResponse, 0, len(conversations))
	for i := range conversations {
		response = append(response, toConversationResponse(&conversations[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *ConversationHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID format"})
		return
	}

	conversation, err := h.convRepo.GetByIDAndOwner(c.Request.Context(), conversationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversation"})
		return
	}

	c.JSON(http.StatusOK, toConversationResponse(conversation))
}

func (h *ConversationHandler) AddMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID format"})
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message := &model.Message{
		Role:    req.Role,
		Content: req.Content,
	}

	if err := h.convRepo.AddMessage(c.Request.Context(), conversationID, userID, message); err != nil {
		switch {
		case errors.Is(err, repository.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add message"})
		}
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(message))
}

func (h *ConversationHandler) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID format"})
		return
	}

	messages, err := h.convRepo.GetMessages(c.Request.Context(), conversationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		response = append(response, toMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Chat persists the incoming user message, asks the agent for a reply over
// the full conversation history and persists the assistant message.
func (h *ConversationHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID format"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userMessage := &model.Message{
		Role:    model.RoleUser,
		Content: req.Content,
	}
	if err := h.convRepo.AddMessage(c.Request.Context(), conversationID, userID, userMessage); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add message"})
		return
	}

	if h.chat == nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chat agent is not configured"})
		return
	}

	history, err := h.convRepo.GetMessages(c.Request.Context(), conversationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), history)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate a reply"})
		return
	}

	assistantMessage := &model.Message{
		Role:    model.RoleAssistant,
		Content: reply,
	}
	if err := h.convRepo.AddMessage(c.Request.Context(), conversationID, userID, assistantMessage); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add message"})
		return
	}

	c.JSON(http.StatusOK, toMessageResponse(assistantMessage))
}
