package dto

import "time"

// CreateSessionRequest is sent by the chat gateway to mint a user session.
type CreateSessionRequest struct {
	GatewayKey string `json:"gateway_key"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// SessionResponse carries the signed session token.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}
