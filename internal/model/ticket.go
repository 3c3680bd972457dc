package model

import (
	"time"
)

// Ticket statuses. Resolved and closed are terminal: a later inbound message
// from the same chat opens a new ticket instead of reopening the old one.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket priorities
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
)

// Message sender types
const (
	SenderTypeCustomer = "customer"
	SenderTypeAdmin    = "admin"
)

// ValidTicketStatus reports whether s is a known ticket status.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// IsTerminalStatus reports whether s is resolved or closed.
func IsTerminalStatus(s string) bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// SupportTicket represents the support_tickets table. CompanyID is empty for
// anonymous inquiries; TelegramChatID is the customer-side correlation key.
type SupportTicket struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"companyId,omitempty"`
	TelegramChatID   string    `json:"telegramChatId"`
	TelegramUsername string    `json:"telegramUsername,omitempty"`
	Subject          string    `json:"subject"`
	Status           string    `json:"status"`
	Priority         string    `json:"priority"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ShortID returns the 8-character display prefix used in chat commands.
func (t *SupportTicket) ShortID() string {
	if len(t.ID) < 8 {
		return t.ID
	}
	return t.ID[:8]
}

// TicketMessage represents the ticket_messages table. Messages are
// append-only and ordered by creation time within a ticket.
type TicketMessage struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticketId"`
	SenderType string    `json:"senderType"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
