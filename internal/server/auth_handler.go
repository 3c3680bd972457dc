package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mahfza/admin-service/internal/model"
	"github.com/mahfza/admin-service/internal/store"
)

// AuthHandler handles admin sign-in and sign-out
type AuthHandler struct {
	admins *store.AdminRepository
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(admins *store.AdminRepository) *AuthHandler {
	return &AuthHandler{admins: admins}
}

type signInRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// HashPassword returns the stored form of an admin password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// SignIn authenticates an admin and issues an opaque session token
// POST /auth/admin/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "البريد وكلمة المرور مطلوبان"})
		return
	}

	admin, err := h.admins.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "خطأ في الخادم"})
		return
	}
	if admin == nil || admin.PasswordHash == "" || admin.PasswordHash != HashPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "بيانات الدخول غير صحيحة"})
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "خطأ في الخادم"})
		return
	}
	token := hex.EncodeToString(tokenBytes)

	maxAge := 24 * time.Hour
	if req.RememberMe {
		maxAge = 30 * 24 * time.Hour
	}
	session := &model.AdminSession{
		Token:     token,
		AdminID:   admin.ID,
		ExpiresAt: time.Now().Add(maxAge),
	}
	if err := h.admins.CreateSession(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "خطأ في الخادم"})
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookie, token, int(maxAge.Seconds()), "/", "", true, true)
	c.SetCookie("admin_id", admin.ID, int(maxAge.Seconds()), "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SignOut revokes the current session
// POST /auth/admin/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		_ = h.admins.DeleteSession(c.Request.Context(), token)
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", true, true)
	c.SetCookie("admin_id", "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
