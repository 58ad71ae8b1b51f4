package events

import (
	"time"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountProvisioned  EventType = "account_provisioned"
	EventAccountSuspended    EventType = "account_suspended"
	EventAccountUnsuspended  EventType = "account_unsuspended"
	EventAccountDeleted      EventType = "account_deleted"
	EventBackupCompleted     EventType = "backup_completed"
	EventDatabaseCreated     EventType = "database_created"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services. The chat gateway
// subscribes to these for outbound user notification; the core never sends
// messages itself.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username,omitempty"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	UserID    int64       `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountProvisionedPayload payload.
type AccountProvisionedPayload struct {
	Domain    string    `json:"domain"`
	PackageID string    `json:"package_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountStatusPayload payload for suspend/unsuspend/delete events.
type AccountStatusPayload struct {
	OldStatus domain.AccountStatus `json:"old_status"`
	NewStatus domain.AccountStatus `json:"new_status"`
}

// BackupCompletedPayload payload.
type BackupCompletedPayload struct {
	Type domain.BackupType `json:"type"`
}

// DatabaseCreatedPayload payload.
type DatabaseCreatedPayload struct {
	DBName string `json:"db_name"`
	DBUser string `json:"db_user"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject string `json:"subject"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	SenderUserID int64  `json:"sender_user_id"`
	IsAdmin      bool   `json:"is_admin"`
	BodyPreview  string `json:"body_preview"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}
