package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mahfza/admin-service/internal/model"
)

// AdminRepository handles database operations for admins and their sessions
type AdminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}
	query := `INSERT INTO admins (id, email, name, password, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		admin.ID, admin.Email, admin.Name, admin.PasswordHash, admin.CreatedAt)
	return err
}

// GetByEmail retrieves an admin by email, nil if not found
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	query := `SELECT id, email, name, password, created_at FROM admins WHERE email = ?`
	admin := &model.Admin{}
	var password sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.Name, &password, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	admin.PasswordHash = password.String
	return admin, nil
}

// GetByID retrieves an admin by ID, nil if not found
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	query := `SELECT id, email, name, password, created_at FROM admins WHERE id = ?`
	admin := &model.Admin{}
	var password sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&admin.ID, &admin.Email, &admin.Name, &password, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	admin.PasswordHash = password.String
	return admin, nil
}

// CreateSession inserts a new admin session
func (r *AdminRepository) CreateSession(ctx context.Context, session *model.AdminSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	query := `INSERT INTO admin_sessions (token, admin_id, expires_at, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		session.Token, session.AdminID, session.ExpiresAt, session.CreatedAt)
	return err
}

// GetSession retrieves a live session by token, nil if missing or expired
func (r *AdminRepository) GetSession(ctx context.Context, token string) (*model.AdminSession, error) {
	query := `SELECT token, admin_id, expires_at, created_at FROM admin_sessions WHERE token = ?`
	session := &model.AdminSession{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token, &session.AdminID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, nil
	}
	return session, nil
}

// DeleteSession removes a session by token
func (r *AdminRepository) DeleteSession(ctx context.Context, token string) error {
	query := `DELETE FROM admin_sessions WHERE token = ?`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}
