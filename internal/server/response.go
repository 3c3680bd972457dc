// Package server exposes the admin HTTP surface: company management,
// support tickets and the Telegram webhook.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mahfza/admin-service/internal/apperrors"
)

// errorResponse writes a structured JSON error. AppErrors map to their HTTP
// code with the user-facing Arabic message; anything else is a 500.
func errorResponse(c *gin.Context, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.Type == apperrors.ErrorTypeStorage {
			log.Error().Str("path", c.FullPath()).Str("details", appErr.Details).Msg("Storage error")
		}
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "خطأ في الخادم"})
}
