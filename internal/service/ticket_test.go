package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfza/admin-service/internal/apperrors"
	"github.com/mahfza/admin-service/internal/model"
	"github.com/mahfza/admin-service/internal/store"
)

// fakeNotifier records dispatched notifications.
type fakeNotifier struct {
	created   []*model.SupportTicket
	customer  []string
	replies   []string
	closed    []*model.SupportTicket
	activated []*model.Company
	failWith  error
}

func (f *fakeNotifier) TicketCreated(ticket *model.SupportTicket) error {
	f.created = append(f.created, ticket)
	return f.failWith
}

func (f *fakeNotifier) CustomerMessage(ticket *model.SupportTicket, text string) error {
	f.customer = append(f.customer, text)
	return f.failWith
}

func (f *fakeNotifier) AdminReply(ticket *model.SupportTicket, text string) error {
	f.replies = append(f.replies, text)
	return f.failWith
}

func (f *fakeNotifier) TicketClosed(ticket *model.SupportTicket) error {
	f.closed = append(f.closed, ticket)
	return f.failWith
}

func (f *fakeNotifier) CompanyActivated(ticket *model.SupportTicket, company *model.Company) error {
	f.activated = append(f.activated, company)
	return f.failWith
}

func setupTicketEngine(t *testing.T) (*TicketEngine, *store.CompanyRepository, *fakeNotifier) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "central.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	companies := store.NewCompanyRepository(db, nil)
	notifier := &fakeNotifier{}
	engine := NewTicketEngine(store.NewTicketRepository(db), companies, notifier)
	return engine, companies, notifier
}

func TestDeriveSubject(t *testing.T) {
	assert.Equal(t, "السعر كام؟", DeriveSubject("السعر كام؟"))

	long := strings.Repeat("س", 60)
	subject := DeriveSubject(long)
	assert.Equal(t, strings.Repeat("س", 50)+"...", subject)
	assert.Equal(t, 53, len([]rune(subject)))
}

func TestReusableTicket(t *testing.T) {
	assert.False(t, ReusableTicket(nil))
	assert.True(t, ReusableTicket(&model.SupportTicket{Status: model.TicketStatusOpen}))
	assert.True(t, ReusableTicket(&model.SupportTicket{Status: model.TicketStatusInProgress}))
	assert.False(t, ReusableTicket(&model.SupportTicket{Status: model.TicketStatusResolved}))
	assert.False(t, ReusableTicket(&model.SupportTicket{Status: model.TicketStatusClosed}))
}

func TestTicketEngine_OpenTicket_Defaults(t *testing.T) {
	engine, _, notifier := setupTicketEngine(t)
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{
		ChatID:   "555",
		Username: "ahmed",
		Message:  "السعر كام؟",
	})
	assert.NoError(t, err)
	require.NotNil(t, ticket)
	assert.Equal(t, model.TicketStatusOpen, ticket.Status)
	assert.Equal(t, model.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, "السعر كام؟", ticket.Subject)

	detail, err := engine.ListDetailed(ctx)
	assert.NoError(t, err)
	require.Len(t, detail, 1)
	require.Len(t, detail[0].Messages, 1)
	assert.Equal(t, model.SenderTypeCustomer, detail[0].Messages[0].SenderType)
	assert.Equal(t, "السعر كام؟", detail[0].Messages[0].Message)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, ticket.ID, notifier.created[0].ID)
}

func TestTicketEngine_HandleInboundMessage(t *testing.T) {
	engine, _, notifier := setupTicketEngine(t)
	ctx := context.Background()

	first, created, err := engine.HandleInboundMessage(ctx, "555", "ahmed", "مشكلة في المحفظة")
	assert.NoError(t, err)
	assert.True(t, created)

	// A follow-up from the same chat lands on the open ticket.
	second, created, err := engine.HandleInboundMessage(ctx, "555", "ahmed", "أي تحديث؟")
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"أي تحديث؟"}, notifier.customer)

	// Once the ticket is closed the next message opens a fresh one.
	_, err = engine.SetStatus(ctx, first.ID, model.TicketStatusClosed)
	require.NoError(t, err)

	third, created, err := engine.HandleInboundMessage(ctx, "555", "ahmed", "عندي سؤال جديد")
	assert.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestTicketEngine_Reply(t *testing.T) {
	engine, _, notifier := setupTicketEngine(t)
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "مشكلة"})
	require.NoError(t, err)

	updated, err := engine.Reply(ctx, ticket.ID, "جاري المراجعة")
	assert.NoError(t, err)
	assert.Equal(t, model.TicketStatusInProgress, updated.Status)
	assert.Equal(t, []string{"جاري المراجعة"}, notifier.replies)

	messages, err := engine.tickets.MessagesByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.SenderTypeAdmin, messages[1].SenderType)
}

func TestTicketEngine_Reply_EmptyMessage(t *testing.T) {
	engine, _, _ := setupTicketEngine(t)
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "مشكلة"})
	require.NoError(t, err)

	_, err = engine.Reply(ctx, ticket.ID, "   ")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestTicketEngine_Reply_TerminalTicket(t *testing.T) {
	engine, _, _ := setupTicketEngine(t)
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "مشكلة"})
	require.NoError(t, err)
	_, err = engine.SetStatus(ctx, ticket.ID, model.TicketStatusClosed)
	require.NoError(t, err)

	_, err = engine.Reply(ctx, ticket.ID, "رد متأخر")
	assert.True(t, apperrors.IsInvalidOperationError(err))
}

func TestTicketEngine_SetStatus(t *testing.T) {
	engine, _, notifier := setupTicketEngine(t)
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "مشكلة"})
	require.NoError(t, err)

	_, err = engine.SetStatus(ctx, ticket.ID, "bogus")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetAppError(err).Type)

	updated, err := engine.SetStatus(ctx, ticket.ID, model.TicketStatusClosed)
	assert.NoError(t, err)
	assert.Equal(t, model.TicketStatusClosed, updated.Status)
	require.Len(t, notifier.closed, 1)

	// Terminal tickets cannot transition again.
	_, err = engine.SetStatus(ctx, ticket.ID, model.TicketStatusOpen)
	assert.True(t, apperrors.IsInvalidOperationError(err))
}

func TestTicketEngine_Activate(t *testing.T) {
	engine, companies, notifier := setupTicketEngine(t)
	ctx := context.Background()

	company := &model.Company{Name: "Alpha", Slug: "alpha"}
	require.NoError(t, companies.Create(ctx, company))

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{
		CompanyID: company.ID,
		ChatID:    "555",
		Priority:  model.TicketPriorityHigh,
		Message:   "طلب تفعيل",
	})
	require.NoError(t, err)

	resolved, activated, err := engine.Activate(ctx, ticket.ID, "")
	assert.NoError(t, err)
	assert.Equal(t, model.TicketStatusResolved, resolved.Status)
	assert.True(t, activated.IsActive)
	require.Len(t, notifier.activated, 1)
	assert.Equal(t, company.ID, notifier.activated[0].ID)

	got, err := companies.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestTicketEngine_Activate_NoCompany(t *testing.T) {
	engine, _, _ := setupTicketEngine(t)
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "استفسار"})
	require.NoError(t, err)

	_, _, err = engine.Activate(ctx, ticket.ID, "")
	assert.True(t, apperrors.IsInvalidOperationError(err))
}

func TestTicketEngine_Activate_CompanyOverride(t *testing.T) {
	engine, companies, _ := setupTicketEngine(t)
	ctx := context.Background()

	company := &model.Company{Name: "Alpha", Slug: "alpha"}
	require.NoError(t, companies.Create(ctx, company))

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "استفسار"})
	require.NoError(t, err)

	_, activated, err := engine.Activate(ctx, ticket.ID, company.ID)
	assert.NoError(t, err)
	assert.True(t, activated.IsActive)
}

func TestTicketEngine_FindByPrefix(t *testing.T) {
	engine, _, _ := setupTicketEngine(t)
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "مشكلة"})
	require.NoError(t, err)

	got, err := engine.FindByPrefix(ctx, ticket.ShortID())
	assert.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	_, err = engine.FindByPrefix(ctx, "nope1234")
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = engine.FindByPrefix(ctx, "")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestTicketEngine_NotificationFailureDoesNotFail(t *testing.T) {
	engine, _, notifier := setupTicketEngine(t)
	notifier.failWith = assert.AnError
	ctx := context.Background()

	ticket, err := engine.OpenTicket(ctx, OpenTicketParams{ChatID: "555", Message: "مشكلة"})
	assert.NoError(t, err)
	require.NotNil(t, ticket)

	got, err := engine.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusOpen, got.Status)
}

func TestTicketEngine_ListDetailed_IncludesCompany(t *testing.T) {
	engine, companies, _ := setupTicketEngine(t)
	ctx := context.Background()

	company := &model.Company{Name: "Alpha", Slug: "alpha", CreatedAt: time.Now()}
	require.NoError(t, companies.Create(ctx, company))

	_, err := engine.OpenTicket(ctx, OpenTicketParams{CompanyID: company.ID, ChatID: "555", Message: "طلب"})
	require.NoError(t, err)
	_, err = engine.OpenTicket(ctx, OpenTicketParams{ChatID: "777", Message: "استفسار زائر"})
	require.NoError(t, err)

	details, err := engine.ListDetailed(ctx)
	assert.NoError(t, err)
	require.Len(t, details, 2)
	for _, detail := range details {
		if detail.CompanyID != "" {
			require.NotNil(t, detail.Company)
			assert.Equal(t, "Alpha", detail.Company.Name)
		} else {
			assert.Nil(t, detail.Company)
		}
	}
}
