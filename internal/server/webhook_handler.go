package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/telegram"
)

// WebhookHandler receives Telegram updates and feeds them to the command
// interpreter. The transport always gets {ok:true} for handled updates and
// internal no-ops; only unexpected failures surface as 500.
type WebhookHandler struct {
	interpreter *telegram.Interpreter
	secret      string // optional X-Telegram-Bot-Api-Secret-Token
}

// NewWebhookHandler creates a new WebhookHandler. secret may be empty.
func NewWebhookHandler(interpreter *telegram.Interpreter, secret string) *WebhookHandler {
	return &WebhookHandler{interpreter: interpreter, secret: secret}
}

// Handle processes one webhook update
// POST /telegram/webhook
func (h *WebhookHandler) Handle(c *gin.Context) {
	if h.secret != "" {
		header := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
		if subtle.ConstantTimeCompare([]byte(header), []byte(h.secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		// A malformed envelope is not worth a retry storm from Telegram.
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.interpreter.HandleUpdate(c.Request.Context(), &update); err != nil {
		log.Error().Err(err).Msg("Telegram webhook error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Status reports webhook liveness
// GET /telegram/webhook
func (h *WebhookHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Telegram webhook is active"})
}
