package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mahfza/admin-service/internal/crypto"
	"github.com/mahfza/admin-service/internal/model"
)

// RedisClient is the subset of redis.Client used for company caching.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CompanyRepository handles database operations for companies
type CompanyRepository struct {
	db    *sql.DB
	cache RedisClient // optional; nil disables caching
}

// NewCompanyRepository creates a new CompanyRepository. cache may be nil.
func NewCompanyRepository(db *sql.DB, cache RedisClient) *CompanyRepository {
	return &CompanyRepository{db: db, cache: cache}
}

func companyCacheKey(id string) string {
	return fmt.Sprintf("company:%s", id)
}

// Create inserts a new company into the central database. The manager email
// is encrypted at rest.
func (r *CompanyRepository) Create(ctx context.Context, company *model.Company) error {
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now()
	}

	if company.ManagerEmail != "" {
		encrypted, iv, err := crypto.Encrypt(company.ManagerEmail)
		if err != nil {
			return err
		}
		company.EncryptedEmail = encrypted
		company.EmailIV = iv
	}

	query := `INSERT INTO companies (id, name, slug, encrypted_email, email_iv, db_path, is_active, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		company.ID, company.Name, company.Slug, company.EncryptedEmail, company.EmailIV,
		company.DBPath, company.IsActive, company.CreatedAt,
	)
	if err != nil {
		return err
	}

	if r.cache != nil {
		r.cache.Del(ctx, companyCacheKey(company.ID))
	}
	return nil
}

func (r *CompanyRepository) scanCompany(row *sql.Row) (*model.Company, error) {
	company := &model.Company{}
	err := row.Scan(&company.ID, &company.Name, &company.Slug,
		&company.EncryptedEmail, &company.EmailIV, &company.DBPath,
		&company.IsActive, &company.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(company.EncryptedEmail) > 0 && len(company.EmailIV) > 0 {
		email, err := crypto.Decrypt(company.EncryptedEmail, company.EmailIV)
		if err != nil {
			return nil, err
		}
		company.ManagerEmail = email
	}
	return company, nil
}

// GetByID retrieves a company by ID, nil if not found
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*model.Company, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, companyCacheKey(id)).Result()
		if err == nil {
			company := &model.Company{}
			if err := json.Unmarshal([]byte(cached), company); err == nil {
				return company, nil
			}
		}
	}

	query := `SELECT id, name, slug, encrypted_email, email_iv, db_path, is_active, created_at
              FROM companies WHERE id = ?`
	company, err := r.scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err != nil || company == nil {
		return company, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(company); err == nil {
			r.cache.SetEx(ctx, companyCacheKey(id), data, 1*time.Hour)
		}
	}
	return company, nil
}

// GetBySlug retrieves a company by slug, nil if not found
func (r *CompanyRepository) GetBySlug(ctx context.Context, slug string) (*model.Company, error) {
	query := `SELECT id, name, slug, encrypted_email, email_iv, db_path, is_active, created_at
              FROM companies WHERE slug = ?`
	return r.scanCompany(r.db.QueryRowContext(ctx, query, slug))
}

// List returns all companies, newest first
func (r *CompanyRepository) List(ctx context.Context) ([]*model.Company, error) {
	query := `SELECT id, name, slug, encrypted_email, email_iv, db_path, is_active, created_at
              FROM companies ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*model.Company
	for rows.Next() {
		company := &model.Company{}
		err := rows.Scan(&company.ID, &company.Name, &company.Slug,
			&company.EncryptedEmail, &company.EmailIV, &company.DBPath,
			&company.IsActive, &company.CreatedAt)
		if err != nil {
			return nil, err
		}
		if len(company.EncryptedEmail) > 0 && len(company.EmailIV) > 0 {
			email, err := crypto.Decrypt(company.EncryptedEmail, company.EmailIV)
			if err != nil {
				return nil, err
			}
			company.ManagerEmail = email
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// SetActive updates a company's activation flag
func (r *CompanyRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE companies SET is_active = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, active, id)
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

	if r.cache != nil {
		r.cache.Del(ctx, companyCacheKey(id))
	}
	return nil
}
