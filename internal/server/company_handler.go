package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahfza/admin-service/internal/service"
)

// CompanyHandler handles company management endpoints
type CompanyHandler struct {
	companies *service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// List returns all companies
// GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

type createCompanyRequest struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	ManagerEmail string `json:"managerEmail" binding:"required,email"`
}

// Create registers a company and provisions its tenant database
// POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "جميع الحقول مطلوبة"})
		return
	}

	company, err := h.companies.Register(c.Request.Context(), req.Name, req.Slug, req.ManagerEmail)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "companyId": company.ID})
}

type updateUserRoleRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Role      string `json:"role" binding:"required"`
}

// UpdateUserRole updates a tenant user's role inside the company database
// PATCH /companies
func (h *CompanyHandler) UpdateUserRole(c *gin.Context) {
	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "جميع الحقول مطلوبة"})
		return
	}

	if err := h.companies.UpdateUserRole(c.Request.Context(), req.CompanyID, req.UserID, req.Role); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Toggle flips a company's activation flag
// POST /companies/:id/toggle
func (h *CompanyHandler) Toggle(c *gin.Context) {
	active, err := h.companies.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isActive": active})
}
