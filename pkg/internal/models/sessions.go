package models

import "time"

// RevokedSession keeps a logged out session id until the token would have
// expired on its own.
type RevokedSession struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`

	AccountID uint `json:"account_id" gorm:"index"`
}
