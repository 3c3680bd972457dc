// Package service implements the company directory and the support-ticket
// state machine on top of the central store and the tenant registry.
package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/apperrors"
	"github.com/mahfza/admin-service/internal/model"
	"github.com/mahfza/admin-service/internal/monitoring"
	"github.com/mahfza/admin-service/internal/store"
	"github.com/mahfza/admin-service/internal/tenant"
)

// CompanyService owns company registration, activation and tenant-store
// delegation.
type CompanyService struct {
	companies *store.CompanyRepository
	registry  *tenant.Registry
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companies *store.CompanyRepository, registry *tenant.Registry) *CompanyService {
	return &CompanyService{companies: companies, registry: registry}
}

// Register creates a company and provisions its tenant database. The tenant
// store is created first; the directory row is inserted only once
// provisioning succeeded, so a provisioning failure never leaves an orphaned
// directory record.
func (s *CompanyService) Register(ctx context.Context, name, slug, managerEmail string) (*model.Company, error) {
	if name == "" || slug == "" || managerEmail == "" {
		return nil, apperrors.NewValidationError("جميع الحقول مطلوبة")
	}

	existing, err := s.companies.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.NewStorageError("فشل في إنشاء الشركة", err.Error())
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("معرف الشركة (Slug) مستخدم بالفعل")
	}

	companyID := uuid.New().String()

	if _, err := s.registry.Get(companyID); err != nil {
		monitoring.Alert("tenant provisioning failed", map[string]string{
			"company_id": companyID,
			"slug":       slug,
		})
		return nil, apperrors.NewStorageError("فشل في إنشاء الشركة", err.Error())
	}

	company := &model.Company{
		ID:           companyID,
		Name:         name,
		Slug:         slug,
		ManagerEmail: managerEmail,
		DBPath:       s.registry.DBPath(companyID),
		IsActive:     false,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		// The tenant database exists but the directory row does not; the
		// file is unreachable without a directory entry and gets reused if
		// registration is retried with the same id.
		log.Error().Err(err).Str("company_id", companyID).Msg("Directory insert failed after provisioning")
		return nil, apperrors.NewStorageError("فشل في إنشاء الشركة", err.Error())
	}

	log.Info().Str("company_id", companyID).Str("slug", slug).Msg("Company registered")
	return company, nil
}

// List returns all companies
func (s *CompanyService) List(ctx context.Context) ([]*model.Company, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("فشل في جلب الشركات", err.Error())
	}
	return companies, nil
}

// Get retrieves a company by id
func (s *CompanyService) Get(ctx context.Context, id string) (*model.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewStorageError("فشل في جلب الشركة", err.Error())
	}
	if company == nil {
		return nil, apperrors.NewNotFoundError("الشركة غير موجودة")
	}
	return company, nil
}

// SetActive sets a company's activation flag. Idempotent: setting the
// current state is a no-op. Returns the resulting state.
func (s *CompanyService) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if company.IsActive == active {
		return active, nil
	}
	if err := s.companies.SetActive(ctx, id, active); err != nil {
		return false, apperrors.NewStorageError("فشل في تحديث الشركة", err.Error())
	}
	return active, nil
}

// Toggle flips a company's activation flag and returns the new state.
func (s *CompanyService) Toggle(ctx context.Context, id string) (bool, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return s.SetActive(ctx, id, !company.IsActive)
}

// UpdateUserRole updates a user's role inside a company's tenant database.
func (s *CompanyService) UpdateUserRole(ctx context.Context, companyID, userID, role string) error {
	switch role {
	case "manager", "branch_manager", "employee":
	default:
		return apperrors.NewValidationError("الدور غير صالح")
	}

	if _, err := s.Get(ctx, companyID); err != nil {
		return err
	}

	ts, err := s.registry.Get(companyID)
	if err != nil {
		return apperrors.NewStorageError("فشل في فتح قاعدة بيانات الشركة", err.Error())
	}
	if err := ts.UpdateUserRole(ctx, userID, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("المستخدم غير موجود")
		}
		return apperrors.NewStorageError("فشل في تحديث الدور", err.Error())
	}
	return nil
}
