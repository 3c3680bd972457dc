package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/apperrors"
	"github.com/mahfza/admin-service/internal/model"
	"github.com/mahfza/admin-service/internal/service"
)

// Sender is the outbound side of the interpreter's conversation.
type Sender interface {
	SendMessage(chatID string, text string) error
	NotifyAdmins(text string) error
}

// Interpreter maps one inbound chat message to a ticket engine action.
// Restricted commands (/reply, /close, /activate) are honored only when the
// sender's chat id matches the configured administrator chat.
type Interpreter struct {
	engine      *service.TicketEngine
	companies   *service.CompanyService
	sender      Sender
	adminChatID string
}

// NewInterpreter creates a new Interpreter
func NewInterpreter(engine *service.TicketEngine, companies *service.CompanyService, sender Sender, adminChatID string) *Interpreter {
	return &Interpreter{
		engine:      engine,
		companies:   companies,
		sender:      sender,
		adminChatID: adminChatID,
	}
}

// HandleUpdate processes one webhook update. Expected conditions (unknown
// commands, missing tickets, permission refusals) are answered in-channel
// and return nil; only unexpected failures propagate.
func (i *Interpreter) HandleUpdate(ctx context.Context, update *Update) error {
	if update.Message == nil || update.Message.Chat == nil || strings.TrimSpace(update.Message.Text) == "" {
		return nil
	}

	chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
	text := strings.TrimSpace(update.Message.Text)
	username := ""
	if update.Message.From != nil {
		username = update.Message.From.Username
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		return i.handleStart(ctx, chatID, username, text)
	case text == "/help":
		return i.reply(chatID, MsgHelp)
	case text == "/status":
		return i.handleStatus(ctx, chatID)
	case strings.HasPrefix(text, "/reply ") || strings.HasPrefix(text, "/close ") || strings.HasPrefix(text, "/activate "):
		return i.handleRestricted(ctx, chatID, text)
	default:
		return i.handleInbound(ctx, chatID, username, text)
	}
}

// handleStart handles /start, with or without an activate_<companyID>
// deep-link parameter.
func (i *Interpreter) handleStart(ctx context.Context, chatID, username, text string) error {
	fields := strings.Fields(text)
	if len(fields) > 1 && strings.HasPrefix(fields[1], "activate_") {
		companyID := strings.TrimPrefix(fields[1], "activate_")
		company, err := i.companies.Get(ctx, companyID)
		if err == nil {
			ticket, err := i.engine.OpenTicket(ctx, service.OpenTicketParams{
				CompanyID: company.ID,
				ChatID:    chatID,
				Username:  username,
				Subject:   FormatActivationSubject(company),
				Priority:  model.TicketPriorityHigh,
				Message:   FormatActivationSummary(company),
			})
			if err != nil {
				return err
			}
			return i.reply(chatID, FormatActivationReceived(company, ticket))
		}
		if !apperrors.IsNotFoundError(err) {
			return err
		}
		// Unknown company id falls through to the welcome message.
	}
	return i.reply(chatID, MsgWelcome)
}

func (i *Interpreter) handleStatus(ctx context.Context, chatID string) error {
	ticket, err := i.engine.LatestTicketForChat(ctx, chatID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return i.reply(chatID, MsgNoTicket)
	}
	return i.reply(chatID, FormatTicketStatus(ticket))
}

// handleRestricted handles /reply, /close and /activate.
func (i *Interpreter) handleRestricted(ctx context.Context, chatID, text string) error {
	if i.adminChatID == "" || chatID != i.adminChatID {
		return i.reply(chatID, MsgAdminOnly)
	}

	parts := strings.Fields(text)
	command := parts[0]
	if len(parts) < 2 {
		return i.reply(chatID, MsgTicketNotFound)
	}
	prefix := parts[1]

	ticket, err := i.engine.FindByPrefix(ctx, prefix)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return i.reply(chatID, MsgTicketNotFound)
		}
		return err
	}

	switch command {
	case "/reply":
		replyText := strings.Join(parts[2:], " ")
		if replyText == "" {
			return i.reply(chatID, MsgReplyUsage)
		}
		if _, err := i.engine.Reply(ctx, ticket.ID, replyText); err != nil {
			return i.replyError(chatID, err)
		}
		return i.reply(chatID, FormatReplySent(ticket.ShortID()))

	case "/close":
		if _, err := i.engine.SetStatus(ctx, ticket.ID, model.TicketStatusClosed); err != nil {
			return i.replyError(chatID, err)
		}
		return i.reply(chatID, FormatCloseConfirm(ticket.ShortID()))

	case "/activate":
		if ticket.CompanyID == "" {
			return i.reply(chatID, MsgTicketHasNoCompany)
		}
		_, company, err := i.engine.Activate(ctx, ticket.ID, "")
		if err != nil {
			return i.replyError(chatID, err)
		}
		return i.reply(chatID, FormatActivateConfirm(company.Name))
	}
	return nil
}

// handleInbound applies the free-text inbound message rule.
func (i *Interpreter) handleInbound(ctx context.Context, chatID, username, text string) error {
	ticket, created, err := i.engine.HandleInboundMessage(ctx, chatID, username, text)
	if err != nil {
		return err
	}
	if created {
		return i.reply(chatID, FormatTicketCreated(ticket))
	}
	return i.reply(chatID, MsgMessageReceived)
}

func (i *Interpreter) reply(chatID, text string) error {
	if err := i.sender.SendMessage(chatID, text); err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Msg("Failed to send chat reply")
	}
	return nil
}

// replyError reports an expected engine error back to the requester as a
// human-readable message; storage errors propagate.
func (i *Interpreter) replyError(chatID string, err error) error {
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Type == apperrors.ErrorTypeStorage {
		return err
	}
	return i.reply(chatID, "❌ "+appErr.Message)
}
