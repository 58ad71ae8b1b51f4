package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostdesk/hosting-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Ticket IDs come from a
// persisted one-row counter so they stay contiguous and are never reused,
// even across restarts.
type TicketRepository interface {
	Create(ctx context.Context, userID int64, subject string, first *domain.TicketMessage) (*domain.Ticket, error)
	GetByID(ctx context.Context, ticketID int64) (*domain.Ticket, error)
	AddMessage(ctx context.Context, ticketID int64, msg *domain.TicketMessage) error
	UpdateStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, userID int64, subject string, first *domain.TicketMessage) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The row update serializes concurrent allocations; ids are handed out
	// in a single atomic read-modify-write.
	var ticketID int64
	if err := tx.QueryRow(ctx,
		`UPDATE ticket_counter SET last_ticket_id = last_ticket_id + 1 RETURNING last_ticket_id`,
	).Scan(&ticketID); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:      ticketID,
		UserID:  userID,
		Subject: subject,
		Status:  domain.TicketStatusOpen,
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO tickets (id, user_id, subject, status) VALUES ($1,$2,$3,$4)
         RETURNING created_at, updated_at`,
		ticket.ID, ticket.UserID, ticket.Subject, ticket.Status,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return nil, err
	}

	first.TicketID = ticket.ID
	if err := tx.QueryRow(ctx,
		`INSERT INTO ticket_messages (ticket_id, sender_user_id, body, is_admin)
         VALUES ($1,$2,$3,$4) RETURNING id, created_at`,
		first.TicketID, first.SenderUserID, first.Body, first.IsAdmin,
	).Scan(&first.ID, &first.CreatedAt); err != nil {
		return nil, err
	}
	ticket.Messages = []domain.TicketMessage{*first}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, subject, status, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Subject,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}

	messages, err := r.listMessages(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket.Messages = messages
	return &ticket, nil
}

func (r *ticketRepository) AddMessage(ctx context.Context, ticketID int64, msg *domain.TicketMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `UPDATE tickets SET updated_at=NOW() WHERE id=$1`, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	msg.TicketID = ticketID
	if err := tx.QueryRow(ctx,
		`INSERT INTO ticket_messages (ticket_id, sender_user_id, body, is_admin)
         VALUES ($1,$2,$3,$4) RETURNING id, created_at`,
		msg.TicketID, msg.SenderUserID, msg.Body, msg.IsAdmin,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`, status, ticketID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, ticketID)
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	const query = `
        SELECT id, user_id, subject, status, created_at, updated_at
        FROM tickets WHERE user_id=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	const query = `
        SELECT id, user_id, subject, status, created_at, updated_at
        FROM tickets WHERE status=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) listMessages(ctx context.Context, ticketID int64) ([]domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, sender_user_id, body, is_admin, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(&msg.ID, &msg.TicketID, &msg.SenderUserID, &msg.Body, &msg.IsAdmin, &msg.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Subject,
			&ticket.Status,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
