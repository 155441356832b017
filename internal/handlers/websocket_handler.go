package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/dto"
	"github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/leaderboard"
	ws "github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins in prod
	},
}

type WebSocketHandler struct {
	hub     *ws.Hub
	service *leaderboard.Service
}

func NewWebSocketHandler(hub *ws.Hub, service *leaderboard.Service) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		service: service,
	}
}

// HandleLeaderboardFeed upgrades the connection and streams every recomputed
// ranking; the current snapshot is pushed immediately after connect.
func (h *WebSocketHandler) HandleLeaderboardFeed(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Missing X-User-ID header")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, userID)

	// Queue the snapshot before the hub knows the client: once registered,
	// a dropped connection lets the hub close the send channel, and a late
	// send here would panic.
	client.SendMessage(ws.MessageTypeLeaderboard, ws.LeaderboardPayload{
		Leaderboard: h.service.Top(c.Request.Context()),
	})

	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
