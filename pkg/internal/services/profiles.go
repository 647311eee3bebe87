package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

const (
	ProfileVisible        = "visible"
	ProfileBlockedByUser  = "blocked_by_user"
	ProfileYouBlockedUser = "you_blocked_user"
)

type ProfileView struct {
	Profile        models.Profile `json:"profile"`
	Posts          []models.Post  `json:"posts"`
	PostCount      int64          `json:"post_count"`
	FollowerCount  int64          `json:"follower_count"`
	FollowingCount int64          `json:"following_count"`
	IsFollowing    bool           `json:"is_following"`
	IsBlocking     bool           `json:"is_blocking"`
	CanDelete      bool           `json:"can_delete"`
	Visibility     string         `json:"visibility"`
	BlockedMessage string         `json:"blocked_message,omitempty"`
}

func GetProfile(account uint) (models.Profile, error) {
	var item models.Profile
	if err := database.C.Where("account_id = ?", account).Preload("Account").First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("%w: profile of account #%d", ErrNotFound, account)
		}
		return item, fmt.Errorf("unable to get profile: %v", err)
	}
	item.AvatarURL = GetMediaURL(item.Avatar)
	return item, nil
}

func GetProfileByName(name string) (models.Profile, error) {
	account, err := GetAccountByName(name)
	if err != nil {
		return models.Profile{}, err
	}
	return GetProfile(account.ID)
}

// SearchProfiles matches usernames containing the term in any letter case, an empty term lists everyone.
func SearchProfiles(term string) ([]models.Profile, error) {
	var items []models.Profile
	tx := database.C.Joins("Account").Order("\"Account\".\"name\" ASC")
	if term = strings.TrimSpace(term); len(term) > 0 {
		tx = tx.Where("LOWER(\"Account\".\"name\") LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if err := tx.Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to search profiles: %v", err)
	}
	for idx := range items {
		items[idx].AvatarURL = GetMediaURL(items[idx].Avatar)
	}
	return items, nil
}

// UpdateProfile changes the profile of user, a nil avatar keeps the current one.
func UpdateProfile(user models.Account, bio, location string, avatar io.Reader, filename string) (models.Profile, error) {
	item, err := GetProfile(user.ID)
	if err != nil {
		return item, err
	}

	previous := item.Avatar
	if avatar != nil {
		key, err := SaveMedia("avatars", avatar, filename)
		if err != nil {
			return item, err
		}
		item.Avatar = key
	}

	item.Bio = strings.TrimSpace(bio)
	item.Location = strings.TrimSpace(location)

	if err := database.C.Model(&item).Select("Bio", "Location", "Avatar").Updates(&item).Error; err != nil {
		if item.Avatar != previous {
			DeleteMedia(item.Avatar)
		}
		return item, fmt.Errorf("unable to update profile: %v", err)
	}
	if item.Avatar != previous {
		DeleteMedia(previous)
	}

	item.AvatarURL = GetMediaURL(item.Avatar)
	return item, nil
}

// ViewProfile builds what viewer sees on the profile of name. A zero viewer
// is anonymous. Posts are withheld when a block exists in either direction,
// the owner's block takes precedence in the signal.
func ViewProfile(name string, viewer models.Account) (ProfileView, error) {
	var out ProfileView

	profile, err := GetProfileByName(name)
	if err != nil {
		return out, err
	}
	out.Profile = profile
	owner := profile.AccountID

	if out.PostCount, err = CountPostByAuthor(owner); err != nil {
		return out, fmt.Errorf("unable to count posts: %v", err)
	}
	if out.FollowerCount, err = CountFollowers(owner); err != nil {
		return out, fmt.Errorf("unable to count followers: %v", err)
	}
	if out.FollowingCount, err = CountFollowing(owner); err != nil {
		return out, fmt.Errorf("unable to count following: %v", err)
	}

	out.Visibility = ProfileVisible
	out.Posts = []models.Post{}

	if viewer.ID > 0 && viewer.ID != owner {
		rel, err := GetRelationContext(viewer.ID)
		if err != nil {
			return out, err
		}

		out.IsFollowing = lo.Contains(rel.Following, owner)
		out.IsBlocking = lo.Contains(rel.Blocking, owner)

		switch {
		case lo.Contains(rel.BlockedBy, owner):
			out.Visibility = ProfileBlockedByUser
			out.BlockedMessage = "This user has blocked you."
			return out, nil
		case out.IsBlocking:
			out.Visibility = ProfileYouBlockedUser
			out.BlockedMessage = "You have blocked this user."
			return out, nil
		}
	}

	out.CanDelete = viewer.ID > 0 && (viewer.ID == owner || viewer.IsAdmin)

	posts, err := ListPostByAuthor(owner)
	if err != nil {
		return out, err
	}
	if out.Posts, err = CompletePostMeta(posts, viewer.ID); err != nil {
		return out, err
	}

	return out, nil
}
