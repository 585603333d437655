package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/middleware"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
)

// WebSocketHandler bridges gin routing to the websocket ask service.
type WebSocketHandler struct {
	wsService      *service.WebSocketService
	sessionService *service.SessionService
}

func NewWebSocketHandler(wsService *service.WebSocketService, sessionService *service.SessionService) *WebSocketHandler {
	return &WebSocketHandler{
		wsService:      wsService,
		sessionService: sessionService,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	claims := middleware.UserClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Unauthorized",
		})
		return
	}
	session := h.sessionService.GetOrCreate(claims.ID)
	h.wsService.HandleAsk(c.Writer, c.Request, session)
}
