package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// RelationContext is the social graph around one account, read fresh for
// every decision.
type RelationContext struct {
	Following []uint
	Blocking  []uint
	BlockedBy []uint
}

// Hidden lists accounts whose content must never reach this account,
// a block in either direction is enough.
func (v RelationContext) Hidden() []uint {
	return lo.Uniq(append(append([]uint{}, v.Blocking...), v.BlockedBy...))
}

func (v RelationContext) IsHidden(account uint) bool {
	return lo.Contains(v.Blocking, account) || lo.Contains(v.BlockedBy, account)
}

func ListFollowingID(account uint) ([]uint, error) {
	var out []uint
	err := database.C.Model(&models.Follow{}).
		Where("follower_id = ?", account).
		Pluck("following_id", &out).Error
	return out, err
}

func ListBlockingID(account uint) ([]uint, error) {
	var out []uint
	err := database.C.Model(&models.Block{}).
		Where("blocker_id = ?", account).
		Pluck("blocked_id", &out).Error
	return out, err
}

func ListBlockedByID(account uint) ([]uint, error) {
	var out []uint
	err := database.C.Model(&models.Block{}).
		Where("blocked_id = ?", account).
		Pluck("blocker_id", &out).Error
	return out, err
}

func GetRelationContext(account uint) (RelationContext, error) {
	var out RelationContext
	var err error
	if out.Following, err = ListFollowingID(account); err != nil {
		return out, fmt.Errorf("unable to list following: %v", err)
	}
	if out.Blocking, err = ListBlockingID(account); err != nil {
		return out, fmt.Errorf("unable to list blocking: %v", err)
	}
	if out.BlockedBy, err = ListBlockedByID(account); err != nil {
		return out, fmt.Errorf("unable to list blocked by: %v", err)
	}
	return out, nil
}

// FilterPostWithUserContext drops posts whose author is on either side of a
// block with the account. The check runs inside the same statement as the read.
func FilterPostWithUserContext(tx *gorm.DB, account uint) *gorm.DB {
	return tx.
		Where("account_id NOT IN (?)", database.C.Model(&models.Block{}).
			Select("blocked_id").Where("blocker_id = ?", account)).
		Where("account_id NOT IN (?)", database.C.Model(&models.Block{}).
			Select("blocker_id").Where("blocked_id = ?", account))
}
