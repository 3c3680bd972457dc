package model

import (
	"time"
)

// Company represents the companies table in the central database.
// Each company owns an isolated tenant database located via DBPath.
type Company struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	ManagerEmail   string    `json:"managerEmail"` // Plaintext (transient, not stored in DB)
	EncryptedEmail []byte    `json:"-"`            // Stored in DB
	EmailIV        []byte    `json:"-"`            // Stored in DB
	DBPath         string    `json:"dbPath"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}
