package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Body string `json:"body"`

	PostID    string  `json:"post_id" gorm:"size:36;index"`
	AccountID uint    `json:"account_id" gorm:"index"`
	Account   Account `json:"account"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if len(c.ID) == 0 {
		c.ID = uuid.NewString()
	}
	return nil
}
