package telegram

import (
	"github.com/mahfza/admin-service/internal/model"
)

// Notifier adapts the bot client to the ticket engine's notification
// contract, rendering the Arabic templates.
type Notifier struct {
	bot *BotService
}

// NewNotifier creates a new Notifier
func NewNotifier(bot *BotService) *Notifier {
	return &Notifier{bot: bot}
}

// TicketCreated notifies admins about a new ticket.
func (n *Notifier) TicketCreated(ticket *model.SupportTicket) error {
	return n.bot.NotifyAdmins(FormatNewTicketNotification(ticket))
}

// CustomerMessage notifies admins about a customer follow-up.
func (n *Notifier) CustomerMessage(ticket *model.SupportTicket, text string) error {
	return n.bot.NotifyAdmins(FormatNewMessageNotification(ticket, text))
}

// AdminReply relays an admin reply into the customer chat.
func (n *Notifier) AdminReply(ticket *model.SupportTicket, text string) error {
	return n.bot.SendMessage(ticket.TelegramChatID, FormatTicketReply(text, true))
}

// TicketClosed notifies the customer that their ticket was closed.
func (n *Notifier) TicketClosed(ticket *model.SupportTicket) error {
	return n.bot.SendMessage(ticket.TelegramChatID, FormatTicketClosed(ticket))
}

// CompanyActivated notifies the customer that their company is active.
func (n *Notifier) CompanyActivated(ticket *model.SupportTicket, company *model.Company) error {
	return n.bot.SendMessage(ticket.TelegramChatID, FormatCompanyActivated(company))
}
