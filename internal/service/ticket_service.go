package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/events"
	"github.com/hostdesk/hosting-service/internal/repository"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// TicketService drives the support ticket state machine. Threads are
// append-only; open and closed are the only states and both directions are
// always permitted.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTicket opens a ticket with its first message. The first message is
// always authored by the ticket owner.
func (s *TicketService) CreateTicket(ctx context.Context, userID int64, subject, body string) (*domain.Ticket, error) {
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject is required", nil)
	}
	if body == "" {
		return nil, apperrors.NewValidationError("message body is required", nil)
	}

	first := &domain.TicketMessage{
		SenderUserID: userID,
		Body:         body,
		IsAdmin:      false,
	}
	ticket, err := s.tickets.Create(ctx, userID, subject, first)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		UserID:   userID,
		Payload:  events.TicketCreatedPayload{Subject: subject},
	})
	return ticket, nil
}

// AddMessage appends a message to a ticket thread. Status is untouched:
// replying to a closed ticket is allowed and reopening stays an explicit
// action.
func (s *TicketService) AddMessage(ctx context.Context, ticketID, senderUserID int64, body string, isAdmin bool) (*domain.Ticket, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("message body is required", nil)
	}

	msg := &domain.TicketMessage{
		SenderUserID: senderUserID,
		Body:         body,
		IsAdmin:      isAdmin,
	}
	if err := s.tickets.AddMessage(ctx, ticketID, msg); err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticketID,
		UserID:   ticket.UserID,
		Payload: events.TicketMessageAddedPayload{
			SenderUserID: senderUserID,
			IsAdmin:      isAdmin,
			BodyPreview:  bodyPreview(body, 120),
		},
	})
	return ticket, nil
}

// CloseTicket sets the ticket to closed. Idempotent when already closed.
func (s *TicketService) CloseTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return s.setStatus(ctx, ticketID, domain.TicketStatusClosed)
}

// ReopenTicket sets the ticket back to open. Idempotent when already open.
func (s *TicketService) ReopenTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return s.setStatus(ctx, ticketID, domain.TicketStatusOpen)
}

func (s *TicketService) setStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	before, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	ticket, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	if before.Status != status {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticketID,
			UserID:   ticket.UserID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: before.Status,
				NewStatus: status,
			},
		})
	}
	return ticket, nil
}

// GetTicket fetches one ticket with its full thread.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}
	return ticket, nil
}

// GetUserTickets lists a user's tickets in creation order.
func (s *TicketService) GetUserTickets(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetOpenTickets lists every open ticket in creation order.
func (s *TicketService) GetOpenTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetClosedTickets lists every closed ticket in creation order.
func (s *TicketService) GetClosedTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByStatus(ctx, domain.TicketStatusClosed)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) mapTicketErr(err error, ticketID int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
