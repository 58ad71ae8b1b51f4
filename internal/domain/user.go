package domain

import "time"

// User is a chat-gateway user known to the service. The ID is the canonical
// 64-bit messenger user identifier.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	IsAdmin      bool
	Active       bool
	RegisteredAt time.Time
}
