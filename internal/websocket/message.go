package websocket

import "github.com/mdeshakalam0-beep/UPS-SCHOOL-sub000/internal/models"

type MessageType string

const (
	// Client -> Server
	MessageTypePing MessageType = "ping"

	// Server -> Client
	MessageTypeConnected   MessageType = "connected"
	MessageTypeLeaderboard MessageType = "leaderboard"
	MessageTypePong        MessageType = "pong"
	MessageTypeError       MessageType = "error"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type ConnectedPayload struct {
	UserID string `json:"user_id"`
}

type LeaderboardPayload struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
