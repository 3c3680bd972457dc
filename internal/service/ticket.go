package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/apperrors"
	"github.com/mahfza/admin-service/internal/model"
	"github.com/mahfza/admin-service/internal/monitoring"
	"github.com/mahfza/admin-service/internal/store"
)

// subjectMaxLen is the subject truncation threshold for spontaneous tickets.
const subjectMaxLen = 50

// Notifier dispatches outbound notifications for ticket transitions.
// Dispatch is at-least-once and never atomic with persistence: failures are
// logged and counted, the state mutation stands.
type Notifier interface {
	TicketCreated(ticket *model.SupportTicket) error
	CustomerMessage(ticket *model.SupportTicket, text string) error
	AdminReply(ticket *model.SupportTicket, text string) error
	TicketClosed(ticket *model.SupportTicket) error
	CompanyActivated(ticket *model.SupportTicket, company *model.Company) error
}

// TicketEngine implements the support-ticket state machine:
// open -> in_progress -> resolved/closed, with company activation as a
// side effect of the activation transition.
type TicketEngine struct {
	tickets   *store.TicketRepository
	companies *store.CompanyRepository
	notifier  Notifier
}

// NewTicketEngine creates a new TicketEngine. notifier may be nil, which
// disables outbound notifications.
func NewTicketEngine(tickets *store.TicketRepository, companies *store.CompanyRepository, notifier Notifier) *TicketEngine {
	return &TicketEngine{tickets: tickets, companies: companies, notifier: notifier}
}

// OpenTicketParams describes a ticket to create. Subject defaults to a
// truncation of Message; Priority defaults to medium.
type OpenTicketParams struct {
	CompanyID string
	ChatID    string
	Username  string
	Subject   string
	Priority  string
	Message   string
}

// DeriveSubject builds a ticket subject from the first message text,
// truncating at 50 runes with an ellipsis marker.
func DeriveSubject(text string) string {
	runes := []rune(text)
	if len(runes) <= subjectMaxLen {
		return text
	}
	return string(runes[:subjectMaxLen]) + "..."
}

// ReusableTicket reports whether an inbound message should be appended to
// ticket rather than opening a new one. Pure function over the most recently
// updated ticket for a chat; resolved and closed tickets are never reused.
func ReusableTicket(ticket *model.SupportTicket) bool {
	return ticket != nil && !model.IsTerminalStatus(ticket.Status)
}

// OpenTicket creates a ticket in the open state with its first customer
// message and notifies the admins.
func (e *TicketEngine) OpenTicket(ctx context.Context, params OpenTicketParams) (*model.SupportTicket, error) {
	subject := params.Subject
	if subject == "" {
		subject = DeriveSubject(params.Message)
	}
	priority := params.Priority
	if priority == "" {
		priority = model.TicketPriorityMedium
	}

	ticket := &model.SupportTicket{
		CompanyID:        params.CompanyID,
		TelegramChatID:   params.ChatID,
		TelegramUsername: params.Username,
		Subject:          subject,
		Status:           model.TicketStatusOpen,
		Priority:         priority,
	}
	if err := e.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStorageError("فشل في إنشاء التذكرة", err.Error())
	}

	message := &model.TicketMessage{
		TicketID:   ticket.ID,
		SenderType: model.SenderTypeCustomer,
		Message:    params.Message,
	}
	if err := e.tickets.AddMessage(ctx, message); err != nil {
		return nil, apperrors.NewStorageError("فشل في حفظ الرسالة", err.Error())
	}

	monitoring.TicketsCreated.WithLabelValues(priority).Inc()
	e.dispatch("ticket_created", func() error { return e.notifier.TicketCreated(ticket) })
	return ticket, nil
}

// HandleInboundMessage applies the inbound-message transition for a chat:
// append to the chat's current non-terminal ticket if one exists, otherwise
// open a new ticket. Returns the ticket and whether it was created.
func (e *TicketEngine) HandleInboundMessage(ctx context.Context, chatID, username, text string) (*model.SupportTicket, bool, error) {
	latest, err := e.tickets.LatestByChat(ctx, chatID)
	if err != nil {
		return nil, false, apperrors.NewStorageError("فشل في جلب التذاكر", err.Error())
	}

	if !ReusableTicket(latest) {
		ticket, err := e.OpenTicket(ctx, OpenTicketParams{
			ChatID:   chatID,
			Username: username,
			Message:  text,
		})
		return ticket, true, err
	}

	message := &model.TicketMessage{
		TicketID:   latest.ID,
		SenderType: model.SenderTypeCustomer,
		Message:    text,
	}
	if err := e.tickets.AddMessage(ctx, message); err != nil {
		return nil, false, apperrors.NewStorageError("فشل في حفظ الرسالة", err.Error())
	}
	if err := e.tickets.Touch(ctx, latest.ID); err != nil {
		return nil, false, apperrors.NewStorageError("فشل في تحديث التذكرة", err.Error())
	}

	e.dispatch("customer_message", func() error { return e.notifier.CustomerMessage(latest, text) })
	return latest, false, nil
}

// LatestTicketForChat returns the most recently updated ticket for a chat
// regardless of status, or nil if the chat has none.
func (e *TicketEngine) LatestTicketForChat(ctx context.Context, chatID string) (*model.SupportTicket, error) {
	ticket, err := e.tickets.LatestByChat(ctx, chatID)
	if err != nil {
		return nil, apperrors.NewStorageError("فشل في جلب التذاكر", err.Error())
	}
	return ticket, nil
}

// Reply applies the admin-reply transition: append an admin message, move
// the ticket to in_progress and notify the customer chat.
func (e *TicketEngine) Reply(ctx context.Context, ticketID, text string) (*model.SupportTicket, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("الرسالة مطلوبة")
	}

	ticket, err := e.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if model.IsTerminalStatus(ticket.Status) {
		return nil, apperrors.NewInvalidOperationError("التذكرة مغلقة بالفعل")
	}

	message := &model.TicketMessage{
		TicketID:   ticket.ID,
		SenderType: model.SenderTypeAdmin,
		Message:    text,
	}
	if err := e.tickets.AddMessage(ctx, message); err != nil {
		return nil, apperrors.NewStorageError("فشل في إرسال الرد", err.Error())
	}
	if err := e.tickets.UpdateStatus(ctx, ticket.ID, model.TicketStatusInProgress); err != nil {
		return nil, apperrors.NewStorageError("فشل في إرسال الرد", err.Error())
	}
	ticket.Status = model.TicketStatusInProgress

	e.dispatch("admin_reply", func() error { return e.notifier.AdminReply(ticket, text) })
	return ticket, nil
}

// SetStatus applies the admin status transition. Terminal tickets cannot be
// moved again; closing notifies the customer chat.
func (e *TicketEngine) SetStatus(ctx context.Context, ticketID, status string) (*model.SupportTicket, error) {
	if !model.ValidTicketStatus(status) {
		return nil, apperrors.NewValidationError("الحالة غير صالحة")
	}

	ticket, err := e.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if model.IsTerminalStatus(ticket.Status) {
		return nil, apperrors.NewInvalidOperationError("التذكرة مغلقة بالفعل")
	}

	if err := e.tickets.UpdateStatus(ctx, ticket.ID, status); err != nil {
		return nil, apperrors.NewStorageError("فشل في تحديث حالة التذكرة", err.Error())
	}
	ticket.Status = status

	if status == model.TicketStatusClosed {
		e.dispatch("ticket_closed", func() error { return e.notifier.TicketClosed(ticket) })
	}
	return ticket, nil
}

// Activate resolves a ticket and activates its company. companyID overrides
// the ticket's association when non-empty (the HTTP activation endpoint
// passes it explicitly); a ticket with no company cannot be activated.
func (e *TicketEngine) Activate(ctx context.Context, ticketID, companyID string) (*model.SupportTicket, *model.Company, error) {
	ticket, err := e.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}

	if companyID == "" {
		companyID = ticket.CompanyID
	}
	if companyID == "" {
		return nil, nil, apperrors.NewInvalidOperationError("هذه التذكرة ليست مرتبطة بشركة")
	}

	company, err := e.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("فشل في جلب الشركة", err.Error())
	}
	if company == nil {
		return nil, nil, apperrors.NewNotFoundError("الشركة غير موجودة")
	}

	if !company.IsActive {
		if err := e.companies.SetActive(ctx, companyID, true); err != nil {
			return nil, nil, apperrors.NewStorageError("فشل في تفعيل الشركة", err.Error())
		}
		company.IsActive = true
	}
	if err := e.tickets.UpdateStatus(ctx, ticket.ID, model.TicketStatusResolved); err != nil {
		return nil, nil, apperrors.NewStorageError("فشل في تحديث حالة التذكرة", err.Error())
	}
	ticket.Status = model.TicketStatusResolved

	log.Info().Str("company_id", companyID).Str("ticket_id", ticket.ID).Msg("Company activated via ticket")
	e.dispatch("company_activated", func() error { return e.notifier.CompanyActivated(ticket, company) })
	return ticket, company, nil
}

// FindByPrefix resolves a ticket by a human-typed id prefix.
func (e *TicketEngine) FindByPrefix(ctx context.Context, prefix string) (*model.SupportTicket, error) {
	if prefix == "" {
		return nil, apperrors.NewNotFoundError("التذكرة غير موجودة")
	}
	ticket, err := e.tickets.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, apperrors.NewStorageError("فشل في جلب التذكرة", err.Error())
	}
	if ticket == nil {
		return nil, apperrors.NewNotFoundError("التذكرة غير موجودة")
	}
	return ticket, nil
}

// TicketDetail is a ticket with its message thread and company.
type TicketDetail struct {
	*model.SupportTicket
	Messages []*model.TicketMessage `json:"messages"`
	Company  *model.Company         `json:"company,omitempty"`
}

// ListDetailed returns all tickets with nested messages and company,
// most recently updated first.
func (e *TicketEngine) ListDetailed(ctx context.Context) ([]*TicketDetail, error) {
	tickets, err := e.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("فشل في جلب التذاكر", err.Error())
	}

	details := make([]*TicketDetail, 0, len(tickets))
	for _, ticket := range tickets {
		messages, err := e.tickets.MessagesByTicket(ctx, ticket.ID)
		if err != nil {
			return nil, apperrors.NewStorageError("فشل في جلب الرسائل", err.Error())
		}
		detail := &TicketDetail{SupportTicket: ticket, Messages: messages}
		if ticket.CompanyID != "" {
			company, err := e.companies.GetByID(ctx, ticket.CompanyID)
			if err != nil {
				return nil, apperrors.NewStorageError("فشل في جلب الشركة", err.Error())
			}
			detail.Company = company
		}
		details = append(details, detail)
	}
	return details, nil
}

func (e *TicketEngine) getTicket(ctx context.Context, id string) (*model.SupportTicket, error) {
	ticket, err := e.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewStorageError("فشل في جلب التذكرة", err.Error())
	}
	if ticket == nil {
		return nil, apperrors.NewNotFoundError("التذكرة غير موجودة")
	}
	return ticket, nil
}

func (e *TicketEngine) dispatch(kind string, fn func() error) {
	if e.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		monitoring.NotificationFailures.Inc()
		log.Error().Err(err).Str("notification", kind).Msg("Failed to dispatch notification")
	}
}
