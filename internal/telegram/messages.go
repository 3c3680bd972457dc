package telegram

import (
	"fmt"
	"html"

	"github.com/mahfza/admin-service/internal/model"
)

// EscapeHTML escapes HTML special characters for safe Telegram message formatting
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// Static bot messages (Arabic, HTML format)
const (
	// MsgWelcome is shown for /start without a recognized parameter
	MsgWelcome = "مرحباً بك في الدعم الفني لـ <b>محفظة</b> 👋\n\n" +
		"كيف يمكنني مساعدتك اليوم؟\n\n" +
		"📝 <b>الأوامر المتاحة:</b>\n" +
		"/start - بدء محادثة جديدة\n" +
		"/status - حالة تذكرتي\n" +
		"/help - المساعدة\n\n" +
		"💡 أو اكتب استفسارك مباشرة وسنرد عليك في أقرب وقت."

	// MsgHelp is shown for /help
	MsgHelp = "📚 <b>مركز المساعدة</b>\n\n" +
		"<b>كيفية استخدام البوت:</b>\n" +
		"1. اكتب استفسارك أو مشكلتك مباشرة\n" +
		"2. سيتم إنشاء تذكرة دعم تلقائياً\n" +
		"3. سيرد عليك فريق الدعم في أقرب وقت\n\n" +
		"<b>الأوامر:</b>\n" +
		"/start - بدء محادثة جديدة\n" +
		"/status - معرفة حالة تذكرتك\n" +
		"/help - عرض هذه الرسالة\n\n" +
		"<b>أوقات العمل:</b>\n" +
		"السبت - الخميس: 9 صباحاً - 6 مساءً\n\n" +
		"للاستفسارات العاجلة: support@mahfza.com"

	// MsgNoTicket is shown for /status when the chat has no tickets
	MsgNoTicket = "❌ لا توجد لديك تذاكر دعم حالياً.\n\n" +
		"اكتب استفسارك وسنقوم بإنشاء تذكرة جديدة لك."

	// MsgAdminOnly is shown when a non-admin issues a restricted command
	MsgAdminOnly = "⛔ هذا الأمر متاح فقط للمسؤولين."

	// MsgTicketNotFound is shown when a ticket prefix resolves to nothing
	MsgTicketNotFound = "❌ لم يتم العثور على التذكرة."

	// MsgReplyUsage is shown for /reply without trailing text
	MsgReplyUsage = "❌ يرجى كتابة الرد بعد رقم التذكرة."

	// MsgTicketHasNoCompany is shown for /activate on a company-less ticket
	MsgTicketHasNoCompany = "❌ هذه التذكرة ليست مرتبطة بشركة."

	// MsgMessageReceived acknowledges a follow-up customer message
	MsgMessageReceived = "✅ تم إرسال رسالتك. سنرد عليك قريباً."
)

func statusEmoji(status string) string {
	switch status {
	case model.TicketStatusOpen:
		return "🟢"
	case model.TicketStatusInProgress:
		return "🟡"
	case model.TicketStatusResolved:
		return "✅"
	default:
		return "⚫"
	}
}

func statusLabel(status string) string {
	switch status {
	case model.TicketStatusOpen:
		return "مفتوحة"
	case model.TicketStatusInProgress:
		return "قيد المعالجة"
	case model.TicketStatusResolved:
		return "تم الحل"
	default:
		return "مغلقة"
	}
}

// FormatActivationSubject builds the fixed subject of an activation ticket.
func FormatActivationSubject(company *model.Company) string {
	return fmt.Sprintf("طلب تفعيل شركة: %s", company.Name)
}

// FormatActivationSummary builds the first customer message of an
// activation ticket, summarizing the company.
func FormatActivationSummary(company *model.Company) string {
	return fmt.Sprintf("طلب تفعيل شركة\nاسم الشركة: %s\nالمعرف: %s\nالبريد: %s",
		company.Name, company.Slug, company.ManagerEmail)
}

// FormatNewTicketNotification builds the admin notification for a new ticket.
func FormatNewTicketNotification(ticket *model.SupportTicket) string {
	user := ticket.TelegramChatID
	if ticket.TelegramUsername != "" {
		user = "@" + EscapeHTML(ticket.TelegramUsername)
	}
	company := "زائر"
	if ticket.CompanyID != "" {
		company = EscapeHTML(ticket.CompanyID)
	}
	return fmt.Sprintf("🎫 <b>تذكرة جديدة #%s</b>\n\n"+
		"📝 <b>الموضوع:</b> %s\n"+
		"👤 <b>المستخدم:</b> %s\n"+
		"🏢 <b>الشركة:</b> %s\n\n"+
		"للرد: <code>/reply %s [رسالتك]</code>",
		ticket.ShortID(), EscapeHTML(ticket.Subject), user, company, ticket.ShortID())
}

// FormatNewMessageNotification builds the admin notification for a customer
// follow-up on an existing ticket.
func FormatNewMessageNotification(ticket *model.SupportTicket, text string) string {
	return fmt.Sprintf("💬 <b>رسالة جديدة في التذكرة #%s</b>\n\n%s\n\n"+
		"للرد: <code>/reply %s [رسالتك]</code>",
		ticket.ShortID(), EscapeHTML(text), ticket.ShortID())
}

// FormatTicketReply formats a message for relay into the customer chat.
func FormatTicketReply(message string, isAdmin bool) string {
	icon, label := "👤", "العميل"
	if isAdmin {
		icon, label = "👨‍💼", "فريق الدعم"
	}
	return fmt.Sprintf("%s <b>%s:</b>\n%s", icon, label, EscapeHTML(message))
}

// FormatTicketStatus builds the /status summary of a ticket.
func FormatTicketStatus(ticket *model.SupportTicket) string {
	return fmt.Sprintf("🎫 <b>آخر تذكرة لك</b>\n\n"+
		"🔖 <b>الرقم:</b> #%s\n"+
		"📝 <b>الموضوع:</b> %s\n"+
		"%s <b>الحالة:</b> %s\n"+
		"📅 <b>التاريخ:</b> %s",
		ticket.ShortID(), EscapeHTML(ticket.Subject),
		statusEmoji(ticket.Status), statusLabel(ticket.Status),
		ticket.CreatedAt.Format("2006-01-02"))
}

// FormatTicketCreated acknowledges a new spontaneous ticket to the customer.
func FormatTicketCreated(ticket *model.SupportTicket) string {
	return fmt.Sprintf("✅ <b>تم إنشاء تذكرة دعم جديدة</b>\n\n"+
		"🔖 <b>رقم التذكرة:</b> #%s\n\n"+
		"سيقوم فريقنا بالرد عليك في أقرب وقت.\n"+
		"يمكنك إرسال المزيد من التفاصيل أو المرفقات.", ticket.ShortID())
}

// FormatActivationReceived acknowledges an activation request to the customer.
func FormatActivationReceived(company *model.Company, ticket *model.SupportTicket) string {
	return fmt.Sprintf("✅ <b>تم استلام طلب التفعيل</b>\n\n"+
		"🏢 <b>الشركة:</b> %s\n"+
		"🔖 <b>رقم التذكرة:</b> #%s\n\n"+
		"سيقوم فريقنا بمراجعة طلبك والرد عليك في أقرب وقت.\n"+
		"يمكنك متابعة حالة طلبك بإرسال /status",
		EscapeHTML(company.Name), ticket.ShortID())
}

// FormatTicketClosed notifies the customer that their ticket was closed.
func FormatTicketClosed(ticket *model.SupportTicket) string {
	return fmt.Sprintf("✅ <b>تم إغلاق تذكرتك</b> #%s\n\n"+
		"شكراً لتواصلك معنا. إذا كان لديك أي استفسار آخر، لا تتردد في التواصل معنا مجدداً.",
		ticket.ShortID())
}

// FormatCompanyActivated notifies the customer that their company is active.
func FormatCompanyActivated(company *model.Company) string {
	return fmt.Sprintf("🎉 <b>مبروك! تم تفعيل شركتك</b>\n\n"+
		"🏢 <b>الشركة:</b> %s\n\n"+
		"يمكنك الآن الدخول للوحة التحكم واستخدام جميع الميزات.\n\n"+
		"نتمنى لك تجربة ممتعة! 🚀", EscapeHTML(company.Name))
}

// Admin command acknowledgements
func FormatReplySent(shortID string) string {
	return fmt.Sprintf("✅ تم إرسال الرد على التذكرة #%s", shortID)
}

func FormatCloseConfirm(shortID string) string {
	return fmt.Sprintf("✅ تم إغلاق التذكرة #%s", shortID)
}

func FormatActivateConfirm(companyName string) string {
	return fmt.Sprintf("✅ تم تفعيل الشركة %s", EscapeHTML(companyName))
}
