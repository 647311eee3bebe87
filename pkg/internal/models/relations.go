package models

type Follow struct {
	BaseModel

	FollowerID  uint    `json:"follower_id" gorm:"uniqueIndex:idx_follow_pair"`
	Follower    Account `json:"follower"`
	FollowingID uint    `json:"following_id" gorm:"uniqueIndex:idx_follow_pair;index"`
	Following   Account `json:"following"`
}

type Block struct {
	BaseModel

	BlockerID uint    `json:"blocker_id" gorm:"uniqueIndex:idx_block_pair"`
	Blocker   Account `json:"blocker"`
	BlockedID uint    `json:"blocked_id" gorm:"uniqueIndex:idx_block_pair;index"`
	Blocked   Account `json:"blocked"`
}
