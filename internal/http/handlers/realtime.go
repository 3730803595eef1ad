package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crewdesk/crewdesk-backend/internal/http/middleware"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/realtime"
)

// RealtimeHandler serves the SSE stream that clients subscribe to for chat
// events.
type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

// Stream subscribes the caller to the comma-separated groups in the
// "groups" query parameter and streams events until the connection drops.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "unauthorized"}})
		return
	}

	client := h.hub.NewClient(userID)
	for _, g := range strings.Split(c.Query("groups"), ",") {
		h.hub.Subscribe(client, g)
	}
	defer h.hub.CloseClient(client)

	h.log.Debug("realtime stream opened", "user_id", userID, "groups", len(client.Groups))
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
