package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobbot/models"
	"jobbot/services/session"
	"jobbot/utils"
)

// ChatService is the conversation surface every transport talks to.
type ChatService interface {
	ProcessMessage(ctx context.Context, sessionID, text string, stateHint models.ConversationState) *models.ChatResponse
	Reset(ctx context.Context, sessionID string) (bool, error)
	Summary(ctx context.Context, sessionID string) (*models.SessionSummary, error)
}

type ChatHandler struct {
	Chat   ChatService
	Logger *zap.Logger
}

func NewChatHandler(chat ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{Chat: chat, Logger: logger}
}

// MessageHandler handles POST /api/v1/chat/message.
func (h *ChatHandler) MessageHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "session_id must not be blank")
		return
	}
	resp := h.Chat.ProcessMessage(c.Request.Context(), req.SessionID, req.Content, req.ConversationState)
	c.JSON(http.StatusOK, resp)
}

// ResetHandler handles POST /api/v1/chat/reset. The session id may come as
// a query parameter or in the body.
func (h *ChatHandler) ResetHandler(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		var body struct {
			SessionID string `json:"session_id"`
		}
		_ = c.ShouldBindJSON(&body)
		sessionID = body.SessionID
	}
	if strings.TrimSpace(sessionID) == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "session_id is required")
		return
	}

	existed, err := h.Chat.Reset(c.Request.Context(), sessionID)
	if err != nil {
		h.Logger.Error("Failed to reset session", zap.String("sessionId", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to reset session", err.Error())
		return
	}
	status := "not_found"
	if existed {
		status = "reset"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "session_id": sessionID})
}

// SessionHandler handles GET /api/v1/chat/session/:session_id.
func (h *ChatHandler) SessionHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	summary, err := h.Chat.Summary(c.Request.Context(), sessionID)
	if errors.Is(err, session.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "session not found", sessionID)
		return
	}
	if err != nil {
		h.Logger.Error("Failed to load session", zap.String("sessionId", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load session", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}
