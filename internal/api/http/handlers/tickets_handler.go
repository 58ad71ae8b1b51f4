package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hostdesk/hosting-service/internal/api/dto"
	"github.com/hostdesk/hosting-service/internal/auth"
	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/service"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

// TicketsHandler serves ticket endpoints for users and admins.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /v1/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.Context(), principal.User.ID, req.Subject, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListTickets GET /v1/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.GetUserTickets(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// GetTicket GET /v1/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.loadOwnedTicket(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AddMessage POST /v1/tickets/:id/messages. Admin replies are flagged so the
// thread renders staff answers distinctly.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if _, err := h.loadOwnedTicket(c); err != nil {
		return err
	}

	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticketID, _ := parseTicketID(c)
	isAdmin := principal.Role == auth.RoleAdmin
	ticket, err := h.service.AddMessage(c.Context(), ticketID, principal.User.ID, req.Body, isAdmin)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// CloseTicket POST /v1/tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	if _, err := h.loadOwnedTicket(c); err != nil {
		return err
	}
	ticketID, _ := parseTicketID(c)
	ticket, err := h.service.CloseTicket(c.Context(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ReopenTicket POST /v1/tickets/:id/reopen.
func (h *TicketsHandler) ReopenTicket(c *fiber.Ctx) error {
	if _, err := h.loadOwnedTicket(c); err != nil {
		return err
	}
	ticketID, _ := parseTicketID(c)
	ticket, err := h.service.ReopenTicket(c.Context(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListByStatus GET /v1/admin/tickets?status=open|closed.
func (h *TicketsHandler) ListByStatus(c *fiber.Ctx) error {
	var (
		tickets []domain.Ticket
		err     error
	)
	switch c.Query("status", "open") {
	case "open":
		tickets, err = h.service.GetOpenTickets(c.Context())
	case "closed":
		tickets, err = h.service.GetClosedTickets(c.Context())
	default:
		return apperrors.NewValidationError("status must be open or closed", nil)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

func (h *TicketsHandler) loadOwnedTicket(c *fiber.Ctx) (*domain.Ticket, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("user required")
	}
	ticketID, err := parseTicketID(c)
	if err != nil {
		return nil, err
	}
	ticket, err := h.service.GetTicket(c.Context(), ticketID)
	if err != nil {
		return nil, err
	}
	if principal.Role != auth.RoleAdmin && ticket.UserID != principal.User.ID {
		return nil, apperrors.NewForbidden("not your ticket")
	}
	return ticket, nil
}

func parseTicketID(c *fiber.Ctx) (int64, error) {
	ticketID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || ticketID <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return ticketID, nil
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketSummary{
			ID:        tickets[i].ID,
			UserID:    tickets[i].UserID,
			Subject:   tickets[i].Subject,
			Status:    tickets[i].Status,
			CreatedAt: tickets[i].CreatedAt,
			UpdatedAt: tickets[i].UpdatedAt,
		})
	}
	return items
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	messages := make([]dto.TicketMessageResponse, 0, len(ticket.Messages))
	for _, msg := range ticket.Messages {
		messages = append(messages, dto.TicketMessageResponse{
			ID:           msg.ID,
			SenderUserID: msg.SenderUserID,
			Body:         msg.Body,
			IsAdmin:      msg.IsAdmin,
			CreatedAt:    msg.CreatedAt,
		})
	}
	return dto.TicketDetailResponse{
		ID:        ticket.ID,
		UserID:    ticket.UserID,
		Subject:   ticket.Subject,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
		Messages:  messages,
	}
}
