package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfza/admin-service/internal/model"
)

func TestTicketRepository_CreateAndGet(t *testing.T) {
	repo := NewTicketRepository(openTestDB(t))
	ctx := context.Background()

	ticket := &model.SupportTicket{
		TelegramChatID:   "12345",
		TelegramUsername: "ahmed",
		Subject:          "مشكلة في الدخول",
		Status:           model.TicketStatusOpen,
		Priority:         model.TicketPriorityMedium,
	}
	err := repo.Create(ctx, ticket)
	assert.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.False(t, ticket.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, ticket.ID)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "مشكلة في الدخول", got.Subject)
	assert.Equal(t, "ahmed", got.TelegramUsername)
	assert.Empty(t, got.CompanyID)
}

func TestTicketRepository_GetByID_NotFound(t *testing.T) {
	repo := NewTicketRepository(openTestDB(t))

	got, err := repo.GetByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTicketRepository_GetByPrefix(t *testing.T) {
	repo := NewTicketRepository(openTestDB(t))
	ctx := context.Background()

	first := &model.SupportTicket{ID: "abc12345-first", TelegramChatID: "1", Subject: "a", Status: model.TicketStatusOpen, Priority: model.TicketPriorityLow}
	second := &model.SupportTicket{ID: "abc12345-second", TelegramChatID: "2", Subject: "b", Status: model.TicketStatusOpen, Priority: model.TicketPriorityLow}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	// The most recently updated match wins on a shared prefix.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Touch(ctx, first.ID))

	got, err := repo.GetByPrefix(ctx, "abc12345")
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)

	got, err = repo.GetByPrefix(ctx, "zzz")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTicketRepository_LatestByChat(t *testing.T) {
	repo := NewTicketRepository(openTestDB(t))
	ctx := context.Background()

	older := &model.SupportTicket{TelegramChatID: "777", Subject: "old", Status: model.TicketStatusClosed, Priority: model.TicketPriorityLow}
	newer := &model.SupportTicket{TelegramChatID: "777", Subject: "new", Status: model.TicketStatusOpen, Priority: model.TicketPriorityLow}
	require.NoError(t, repo.Create(ctx, older))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.LatestByChat(ctx, "777")
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)

	got, err = repo.LatestByChat(ctx, "888")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTicketRepository_UpdateStatus(t *testing.T) {
	repo := NewTicketRepository(openTestDB(t))
	ctx := context.Background()

	ticket := &model.SupportTicket{TelegramChatID: "1", Subject: "s", Status: model.TicketStatusOpen, Priority: model.TicketPriorityMedium}
	require.NoError(t, repo.Create(ctx, ticket))

	time.Sleep(5 * time.Millisecond)
	err := repo.UpdateStatus(ctx, ticket.ID, model.TicketStatusInProgress)
	assert.NoError(t, err)

	got, err := repo.GetByID(ctx, ticket.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.TicketStatusInProgress, got.Status)
	assert.True(t, got.UpdatedAt.After(ticket.UpdatedAt))
}

func TestTicketRepository_UpdateStatus_Missing(t *testing.T) {
	repo := NewTicketRepository(openTestDB(t))

	err := repo.UpdateStatus(context.Background(), "missing", model.TicketStatusClosed)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTicketRepository_Messages(t *testing.T) {
	repo := NewTicketRepository(openTestDB(t))
	ctx := context.Background()

	ticket := &model.SupportTicket{TelegramChatID: "1", Subject: "s", Status: model.TicketStatusOpen, Priority: model.TicketPriorityMedium}
	require.NoError(t, repo.Create(ctx, ticket))

	first := &model.TicketMessage{TicketID: ticket.ID, SenderType: model.SenderTypeCustomer, Message: "السعر كام؟"}
	require.NoError(t, repo.AddMessage(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := &model.TicketMessage{TicketID: ticket.ID, SenderType: model.SenderTypeAdmin, Message: "تفضل التفاصيل"}
	require.NoError(t, repo.AddMessage(ctx, second))

	messages, err := repo.MessagesByTicket(ctx, ticket.ID)
	assert.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "السعر كام؟", messages[0].Message)
	assert.Equal(t, model.SenderTypeCustomer, messages[0].SenderType)
	assert.Equal(t, model.SenderTypeAdmin, messages[1].SenderType)
}
