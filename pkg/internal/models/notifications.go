package models

import "gorm.io/datatypes"

const (
	NotificationTypeLike    = "like"
	NotificationTypeFollow  = "follow"
	NotificationTypePost    = "post"
	NotificationTypeComment = "comment"
)

type Notification struct {
	BaseModel

	Verb     string            `json:"verb"`
	Type     string            `json:"type" gorm:"size:20"`
	PostID   *string           `json:"post_id" gorm:"size:36"`
	URL      string            `json:"url"`
	Read     bool              `json:"read" gorm:"index"`
	Metadata datatypes.JSONMap `json:"metadata"`

	RecipientID uint    `json:"recipient_id" gorm:"index"`
	Recipient   Account `json:"recipient"`
	ActorID     uint    `json:"actor_id"`
	Actor       Account `json:"actor"`
}
