package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfza/admin-service/internal/apperrors"
	"github.com/mahfza/admin-service/internal/store"
	"github.com/mahfza/admin-service/internal/tenant"
)

func setupCompanyService(t *testing.T) (*CompanyService, *tenant.Registry) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "central.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	registry := tenant.NewRegistry(filepath.Join(t.TempDir(), "tenants"))
	t.Cleanup(func() { registry.Close() })

	return NewCompanyService(store.NewCompanyRepository(db, nil), registry), registry
}

func TestCompanyService_Register(t *testing.T) {
	svc, registry := setupCompanyService(t)
	ctx := context.Background()

	company, err := svc.Register(ctx, "شركة النور", "alnoor", "manager@alnoor.com")
	assert.NoError(t, err)
	require.NotNil(t, company)
	assert.NotEmpty(t, company.ID)
	assert.False(t, company.IsActive)
	assert.Equal(t, registry.DBPath(company.ID), company.DBPath)

	// The tenant database is provisioned before the directory row exists.
	_, err = os.Stat(company.DBPath)
	assert.NoError(t, err)

	got, err := svc.Get(ctx, company.ID)
	assert.NoError(t, err)
	assert.Equal(t, "manager@alnoor.com", got.ManagerEmail)
}

func TestCompanyService_Register_MissingFields(t *testing.T) {
	svc, _ := setupCompanyService(t)

	_, err := svc.Register(context.Background(), "", "slug", "a@b.com")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestCompanyService_Register_DuplicateSlug(t *testing.T) {
	svc, _ := setupCompanyService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "taken", "a@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Second", "taken", "b@example.com")
	assert.True(t, apperrors.IsConflictError(err))
}

func TestCompanyService_Get_NotFound(t *testing.T) {
	svc, _ := setupCompanyService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestCompanyService_SetActiveIdempotent(t *testing.T) {
	svc, _ := setupCompanyService(t)
	ctx := context.Background()

	company, err := svc.Register(ctx, "Alpha", "alpha", "a@example.com")
	require.NoError(t, err)

	active, err := svc.SetActive(ctx, company.ID, true)
	assert.NoError(t, err)
	assert.True(t, active)

	// Re-activating is a no-op, not an error.
	active, err = svc.SetActive(ctx, company.ID, true)
	assert.NoError(t, err)
	assert.True(t, active)

	active, err = svc.Toggle(ctx, company.ID)
	assert.NoError(t, err)
	assert.False(t, active)
}

func TestCompanyService_UpdateUserRole(t *testing.T) {
	svc, registry := setupCompanyService(t)
	ctx := context.Background()

	company, err := svc.Register(ctx, "Alpha", "alpha", "a@example.com")
	require.NoError(t, err)

	ts, err := registry.Get(company.ID)
	require.NoError(t, err)
	_, err = ts.DB().Exec(
		`INSERT INTO user (id, name, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"u1", "Ahmed", "ahmed@example.com", "employee", time.Now(), time.Now())
	require.NoError(t, err)

	err = svc.UpdateUserRole(ctx, company.ID, "u1", "manager")
	assert.NoError(t, err)

	var role string
	require.NoError(t, ts.DB().QueryRow(`SELECT role FROM user WHERE id = ?`, "u1").Scan(&role))
	assert.Equal(t, "manager", role)
}

func TestCompanyService_UpdateUserRole_InvalidRole(t *testing.T) {
	svc, _ := setupCompanyService(t)

	err := svc.UpdateUserRole(context.Background(), "any", "u1", "superuser")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestCompanyService_UpdateUserRole_UserNotFound(t *testing.T) {
	svc, _ := setupCompanyService(t)
	ctx := context.Background()

	company, err := svc.Register(ctx, "Alpha", "alpha", "a@example.com")
	require.NoError(t, err)

	err = svc.UpdateUserRole(ctx, company.ID, "missing", "manager")
	assert.True(t, apperrors.IsNotFoundError(err))
}
