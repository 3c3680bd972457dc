package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mahfza/admin-service/internal/service"
)

// TicketHandler handles admin support-ticket endpoints. They enter the
// ticket engine directly, sharing the transition logic with the chat
// interpreter.
type TicketHandler struct {
	engine *service.TicketEngine
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(engine *service.TicketEngine) *TicketHandler {
	return &TicketHandler{engine: engine}
}

// List returns all tickets with nested messages and company
// GET /support/tickets
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.engine.ListDetailed(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

type replyRequest struct {
	Message string `json:"message" binding:"required"`
}

// Reply applies the admin-reply transition
// POST /support/tickets/:id/reply
func (h *TicketHandler) Reply(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "الرسالة مطلوبة"})
		return
	}

	if _, err := h.engine.Reply(c.Request.Context(), c.Param("id"), req.Message); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus applies an admin status transition
// PATCH /support/tickets/:id/status
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "الحالة مطلوبة"})
		return
	}

	if _, err := h.engine.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type activateRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
}

// Activate resolves a ticket and activates its company
// POST /support/tickets/:id/activate
func (h *TicketHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف الشركة مطلوب"})
		return
	}

	if _, _, err := h.engine.Activate(c.Request.Context(), c.Param("id"), req.CompanyID); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
