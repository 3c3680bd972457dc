package server

import (
	"github.com/gin-gonic/gin"

	"github.com/mahfza/admin-service/internal/service"
	"github.com/mahfza/admin-service/internal/store"
	"github.com/mahfza/admin-service/internal/telegram"
)

// Deps wires the router's collaborators.
type Deps struct {
	Companies     *service.CompanyService
	Engine        *service.TicketEngine
	Interpreter   *telegram.Interpreter
	Admins        *store.AdminRepository
	WebhookSecret string
}

// NewRouter builds the HTTP surface. Admin endpoints sit behind the session
// middleware; the Telegram webhook and sign-in are open.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authHandler := NewAuthHandler(deps.Admins)
	companyHandler := NewCompanyHandler(deps.Companies)
	ticketHandler := NewTicketHandler(deps.Engine)
	webhookHandler := NewWebhookHandler(deps.Interpreter, deps.WebhookSecret)

	router.POST("/auth/admin/sign-in", authHandler.SignIn)
	router.POST("/auth/admin/sign-out", authHandler.SignOut)

	router.GET("/telegram/webhook", webhookHandler.Status)
	router.POST("/telegram/webhook", webhookHandler.Handle)

	admin := router.Group("/", RequireAdmin(deps.Admins))
	{
		admin.GET("/companies", companyHandler.List)
		admin.POST("/companies", companyHandler.Create)
		admin.PATCH("/companies", companyHandler.UpdateUserRole)
		admin.POST("/companies/:id/toggle", companyHandler.Toggle)

		admin.GET("/support/tickets", ticketHandler.List)
		admin.POST("/support/tickets/:id/reply", ticketHandler.Reply)
		admin.PATCH("/support/tickets/:id/status", ticketHandler.UpdateStatus)
		admin.POST("/support/tickets/:id/activate", ticketHandler.Activate)
	}

	return router
}
