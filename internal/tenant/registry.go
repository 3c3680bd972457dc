// Package tenant owns the per-company isolated databases: lazy creation,
// schema application and process-wide handle caching.
package tenant

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/monitoring"
)

// Store is a handle to one company's isolated database.
type Store struct {
	companyID string
	db        *sql.DB
}

// DB exposes the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// UpdateUserRole updates a tenant user's role. Returns sql.ErrNoRows if the
// user does not exist in this tenant.
func (s *Store) UpdateUserRole(ctx context.Context, userID, role string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE user SET role = ?, updated_at = ? WHERE id = ?`, role, time.Now(), userID)
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

// Registry maps company ids to initialized tenant stores. Handles are
// created on first access and cached for the lifetime of the process.
type Registry struct {
	dir     string
	mutex   sync.Mutex
	handles map[string]*Store
}

// NewRegistry creates a registry storing tenant databases under dir.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:     dir,
		handles: make(map[string]*Store),
	}
}

// DBPath returns the deterministic database location for a company id.
func (r *Registry) DBPath(companyID string) string {
	return filepath.Join(r.dir, fmt.Sprintf("tenant_%s.db", companyID))
}

// Get returns the tenant store for a company, initializing it on first
// access. The mutex serializes concurrent first accesses so the schema is
// applied exactly once; a failed initialization is not cached, so the next
// call retries.
func (r *Registry) Get(companyID string) (*Store, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if store, exists := r.handles[companyID]; exists {
		return store, nil
	}

	start := time.Now()
	store, err := r.open(companyID)
	if err != nil {
		monitoring.TenantsProvisioned.WithLabelValues("failed").Inc()
		return nil, err
	}
	monitoring.TenantsProvisioned.WithLabelValues("success").Inc()
	monitoring.ProvisioningDuration.Observe(time.Since(start).Seconds())

	r.handles[companyID] = store
	return store, nil
}

func (r *Registry) open(companyID string) (*Store, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tenant directory: %w", err)
	}

	path := r.DBPath(companyID)
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply tenant schema: %w", err)
	}

	log.Info().Str("company_id", companyID).Str("path", path).Msg("Tenant database initialized")
	return &Store{companyID: companyID, db: db}, nil
}

// Close tears down all cached handles. Called at process shutdown only;
// there is no per-tenant teardown.
func (r *Registry) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var firstErr error
	for companyID, store := range r.handles {
		if err := store.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.handles, companyID)
	}
	return firstErr
}
