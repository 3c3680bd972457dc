package model

import (
	"time"
)

// Admin represents the admins table
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminSession represents the admin_sessions table. Token is the opaque
// value stored in the admin_session cookie.
type AdminSession struct {
	Token     string    `json:"-"`
	AdminID   string    `json:"adminId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
