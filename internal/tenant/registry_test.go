package tenant

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetCreatesDatabase(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "tenants"))
	defer registry.Close()

	store, err := registry.Get("company-1")
	assert.NoError(t, err)
	require.NotNil(t, store)

	_, err = os.Stat(registry.DBPath("company-1"))
	assert.NoError(t, err)

	// Schema is applied on first access.
	_, err = store.DB().Exec(
		`INSERT INTO user (id, name, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"u1", "Ahmed", "ahmed@example.com", "employee", time.Now(), time.Now())
	assert.NoError(t, err)
}

func TestRegistry_GetCachesHandle(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "tenants"))
	defer registry.Close()

	first, err := registry.Get("company-1")
	require.NoError(t, err)
	second, err := registry.Get("company-1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := registry.Get("company-2")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "tenants"))
	defer registry.Close()

	var wg sync.WaitGroup
	stores := make([]*Store, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, err := registry.Get("company-1")
			assert.NoError(t, err)
			stores[i] = store
		}(i)
	}
	wg.Wait()

	for i := 1; i < 10; i++ {
		assert.Same(t, stores[0], stores[i])
	}
}

func TestRegistry_ReopenExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tenants")

	registry := NewRegistry(dir)
	store, err := registry.Get("company-1")
	require.NoError(t, err)
	_, err = store.DB().Exec(
		`INSERT INTO user (id, name, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"u1", "Ahmed", "ahmed@example.com", "employee", time.Now(), time.Now())
	require.NoError(t, err)
	require.NoError(t, registry.Close())

	// A fresh registry re-applies the idempotent schema and keeps data.
	registry = NewRegistry(dir)
	defer registry.Close()
	store, err = registry.Get("company-1")
	require.NoError(t, err)

	var count int
	err = store.DB().QueryRow(`SELECT COUNT(*) FROM user`).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_UpdateUserRole(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "tenants"))
	defer registry.Close()

	store, err := registry.Get("company-1")
	require.NoError(t, err)
	_, err = store.DB().Exec(
		`INSERT INTO user (id, name, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"u1", "Ahmed", "ahmed@example.com", "employee", time.Now(), time.Now())
	require.NoError(t, err)

	ctx := context.Background()
	err = store.UpdateUserRole(ctx, "u1", "branch_manager")
	assert.NoError(t, err)

	var role string
	require.NoError(t, store.DB().QueryRow(`SELECT role FROM user WHERE id = ?`, "u1").Scan(&role))
	assert.Equal(t, "branch_manager", role)

	err = store.UpdateUserRole(ctx, "missing", "manager")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
