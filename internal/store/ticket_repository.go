package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mahfza/admin-service/internal/model"
)

// TicketRepository handles database operations for support tickets and
// their message threads.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *model.SupportTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	query := `INSERT INTO support_tickets (id, company_id, telegram_chat_id, telegram_username, subject, status, priority, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ticket.ID, nullString(ticket.CompanyID), ticket.TelegramChatID, nullString(ticket.TelegramUsername),
		ticket.Subject, ticket.Status, ticket.Priority, ticket.CreatedAt, ticket.UpdatedAt,
	)
	return err
}

const ticketColumns = `id, company_id, telegram_chat_id, telegram_username, subject, status, priority, created_at, updated_at`

func scanTicket(s interface {
	Scan(dest ...interface{}) error
}) (*model.SupportTicket, error) {
	ticket := &model.SupportTicket{}
	var companyID, username sql.NullString
	err := s.Scan(&ticket.ID, &companyID, &ticket.TelegramChatID, &username,
		&ticket.Subject, &ticket.Status, &ticket.Priority, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ticket.CompanyID = companyID.String
	ticket.TelegramUsername = username.String
	return ticket, nil
}

// GetByID retrieves a ticket by ID, nil if not found
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*model.SupportTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets WHERE id = ?`
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ticket, err
}

// GetByPrefix resolves a ticket by id prefix. Prefixes are expected, not
// guaranteed, unique; the most recently updated match wins.
func (r *TicketRepository) GetByPrefix(ctx context.Context, prefix string) (*model.SupportTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets
              WHERE id LIKE ? || '%' ORDER BY updated_at DESC LIMIT 1`
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, prefix))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ticket, err
}

// LatestByChat returns the most recently updated ticket for a chat,
// nil if the chat has no tickets at all.
func (r *TicketRepository) LatestByChat(ctx context.Context, chatID string) (*model.SupportTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets
              WHERE telegram_chat_id = ? ORDER BY updated_at DESC LIMIT 1`
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, chatID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ticket, err
}

// List returns all tickets, most recently updated first
func (r *TicketRepository) List(ctx context.Context) ([]*model.SupportTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*model.SupportTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// UpdateStatus sets a ticket's status and refreshes updated_at
func (r *TicketRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE support_tickets SET status = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Touch refreshes a ticket's updated_at timestamp
func (r *TicketRepository) Touch(ctx context.Context, id string) error {
	query := `UPDATE support_tickets SET updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

// AddMessage appends a message to a ticket's thread
func (r *TicketRepository) AddMessage(ctx context.Context, message *model.TicketMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query := `INSERT INTO ticket_messages (id, ticket_id, sender_type, message, created_at)
              VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.TicketID, message.SenderType, message.Message, message.CreatedAt)
	return err
}

// MessagesByTicket returns a ticket's messages in creation order
func (r *TicketRepository) MessagesByTicket(ctx context.Context, ticketID string) ([]*model.TicketMessage, error) {
	query := `SELECT id, ticket_id, sender_type, message, created_at
              FROM ticket_messages WHERE ticket_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.TicketMessage
	for rows.Next() {
		message := &model.TicketMessage{}
		err := rows.Scan(&message.ID, &message.TicketID, &message.SenderType,
			&message.Message, &message.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
