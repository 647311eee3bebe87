package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Image     string `json:"image"`
	Caption   string `json:"caption"`
	Language  string `json:"language"`
	NoOfLikes int    `json:"no_of_likes"`

	AccountID uint    `json:"account_id" gorm:"index"`
	Account   Account `json:"account"`

	Metric PostMetric `json:"metric" gorm:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if len(p.ID) == 0 {
		p.ID = uuid.NewString()
	}
	return nil
}

type PostMetric struct {
	ImageURL     string `json:"image_url"`
	IsLiked      bool   `json:"is_liked"`
	CommentCount int64  `json:"comments_count"`
}

// PostLike existing is what "liked" means, Post.NoOfLikes only caches the count.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	PostID    string `json:"post_id" gorm:"size:36;uniqueIndex:idx_post_like_pair"`
	AccountID uint   `json:"account_id" gorm:"uniqueIndex:idx_post_like_pair"`
}
