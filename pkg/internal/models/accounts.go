package models

// Account is the identity every other record points at by ID.
// The name is a secondary unique index.
type Account struct {
	BaseModel

	Name     string `json:"name" gorm:"uniqueIndex;size:150"`
	Email    string `json:"-" gorm:"uniqueIndex;size:254"`
	Password string `json:"-"`
	IsAdmin  bool   `json:"is_admin"`
}

type Profile struct {
	BaseModel

	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Location string `json:"location" gorm:"size:100"`

	AccountID uint    `json:"account_id" gorm:"uniqueIndex"`
	Account   Account `json:"account"`

	AvatarURL string `json:"avatar_url" gorm:"-"`
}
