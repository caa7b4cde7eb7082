package handlers

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"jobbot/models"
)

const (
	maxMessageRunes = 1000
	wsReadLimit     = 16 * 1024
	wsIdleTimeout   = 10 * time.Minute
)

// wsFrame is one inbound chat frame. SessionID falls back to the
// session_id query parameter given at connect time.
type wsFrame struct {
	Content           string                   `json:"content"`
	SessionID         string                   `json:"session_id,omitempty"`
	ConversationState models.ConversationState `json:"conversation_state,omitempty"`
}

type wsError struct {
	MessageType models.MessageType `json:"message_type"`
	Message     string             `json:"message"`
}

type LiveChatHandler struct {
	Chat     ChatService
	Logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewLiveChatHandler(chat ChatService, logger *zap.Logger) *LiveChatHandler {
	return &LiveChatHandler{
		Chat:   chat,
		Logger: logger,
		upgrader: websocket.Upgrader{
			// CORS is enforced at the router.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WebSocketHandler handles GET /api/v1/chat/ws. Frames are processed in
// order, one reply per frame.
func (h *LiveChatHandler) WebSocketHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("Failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	defaultSession := c.Query("session_id")
	ctx := c.Request.Context()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Info("Websocket closed", zap.Error(err))
			}
			return
		}

		sessionID := frame.SessionID
		if sessionID == "" {
			sessionID = defaultSession
		}
		if problem := validateFrame(sessionID, frame.Content); problem != "" {
			if err := conn.WriteJSON(wsError{MessageType: models.MessageError, Message: problem}); err != nil {
				return
			}
			continue
		}

		resp := h.Chat.ProcessMessage(ctx, sessionID, frame.Content, frame.ConversationState)
		if err := conn.WriteJSON(resp); err != nil {
			h.Logger.Warn("Failed to write websocket reply", zap.String("sessionId", sessionID), zap.Error(err))
			return
		}
	}
}

func validateFrame(sessionID, content string) string {
	switch n := utf8.RuneCountInString(content); {
	case strings.TrimSpace(sessionID) == "":
		return "session_id is required"
	case n == 0:
		return "content is required"
	case n > maxMessageRunes:
		return "content must be at most 1000 characters"
	}
	return ""
}
