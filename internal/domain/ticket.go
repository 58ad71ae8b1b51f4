package domain

import "time"

// TicketStatus enumerates ticket states. Both directions are always
// permitted; tickets never auto-close.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// Ticket is a support conversation thread. IDs are allocated from a persisted
// counter and form a contiguous increasing sequence starting at 1.
type Ticket struct {
	ID        int64
	UserID    int64
	Subject   string
	Status    TicketStatus
	Messages  []TicketMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TicketMessage is one entry in a ticket thread. Messages are immutable once
// appended; thread order is append order.
type TicketMessage struct {
	ID           int64
	TicketID     int64
	SenderUserID int64
	Body         string
	IsAdmin      bool
	CreatedAt    time.Time
}
