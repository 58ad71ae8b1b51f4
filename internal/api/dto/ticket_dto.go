package dto

import (
	"time"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Body string `json:"body"`
}

// TicketSummary response.
type TicketSummary struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Subject   string              `json:"subject"`
	Status    domain.TicketStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TicketMessageResponse represents a thread message.
type TicketMessageResponse struct {
	ID           int64     `json:"id"`
	SenderUserID int64     `json:"sender_user_id"`
	Body         string    `json:"body"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketDetailResponse provides the full thread.
type TicketDetailResponse struct {
	ID        int64                   `json:"id"`
	UserID    int64                   `json:"user_id"`
	Subject   string                  `json:"subject"`
	Status    domain.TicketStatus     `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Messages  []TicketMessageResponse `json:"messages"`
}
