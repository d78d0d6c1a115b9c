package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealwise/mealwise-backend/internal/service"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// ChatHandler handles chat-related requests
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes registers the chat routes
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	{
		chat.POST("/message", h.HandleMessage)
		chat.POST("/commit", h.CommitMeal)
	}
}

func authedUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := userIDVal.(uuid.UUID)
	return userID, ok
}

// HandleMessage processes one chat message
func (h *ChatHandler) HandleMessage(c *gin.Context) {
	var req types.HandleMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := authedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.chat.HandleMessage(c.Request.Context(), userID, req))
}

// CommitMeal persists an approved verification view
func (h *ChatHandler) CommitMeal(c *gin.Context) {
	var req types.CommitMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := authedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp := h.chat.CommitMeal(c.Request.Context(), userID, req)
	if !resp.OK {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
