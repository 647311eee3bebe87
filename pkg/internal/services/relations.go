package services

import (
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"git.solsynth.dev/hypernet/circle/pkg/internal/metrics"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func stateLabel(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func IsFollowing(follower, following uint) (bool, error) {
	var count int64
	err := database.C.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", follower, following).
		Count(&count).Error
	return count > 0, err
}

func IsBlocking(blocker, blocked uint) (bool, error) {
	var count int64
	err := database.C.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blocker, blocked).
		Count(&count).Error
	return count > 0, err
}

// ToggleFollow flips the follow edge from actor to target and reports
// whether actor follows target afterward. Only a new edge notifies.
func ToggleFollow(actor, target models.Account) (bool, error) {
	if actor.ID == target.ID {
		return false, fmt.Errorf("%w: you cannot follow yourself", ErrPermissionDenied)
	}

	var following bool
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var edge models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", actor.ID, target.ID).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			following = true
			return tx.Create(&models.Follow{FollowerID: actor.ID, FollowingID: target.ID}).Error
		} else if err != nil {
			return err
		}
		following = false
		return tx.Delete(&edge).Error
	})
	if err != nil {
		return false, fmt.Errorf("unable to toggle follow: %v", err)
	}

	metrics.RelationToggles.WithLabelValues("follow", stateLabel(following)).Inc()

	if following {
		NotifyUser(
			target,
			actor,
			"started following you",
			models.NotificationTypeFollow,
			nil,
			fmt.Sprintf("/profile/%s", actor.Name),
		)
		gap.AddEvent("relations.follow", fmt.Sprintf("account#%d", target.ID), actor.ID)
	} else {
		gap.AddEvent("relations.unfollow", fmt.Sprintf("account#%d", target.ID), actor.ID)
	}

	log.Debug().Uint("actor", actor.ID).Uint("target", target.ID).Bool("following", following).Msg("Follow toggled.")
	return following, nil
}

func createBlock(tx *gorm.DB, actor, target models.Account) error {
	if err := tx.Create(&models.Block{BlockerID: actor.ID, BlockedID: target.ID}).Error; err != nil {
		return err
	}
	return tx.
		Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
			actor.ID, target.ID, target.ID, actor.ID).
		Delete(&models.Follow{}).Error
}

func afterBlockChanged(actor, target models.Account, blocking bool) {
	metrics.RelationToggles.WithLabelValues("block", stateLabel(blocking)).Inc()
	if blocking {
		gap.AddEvent("relations.block", fmt.Sprintf("account#%d", target.ID), actor.ID)
	} else {
		gap.AddEvent("relations.unblock", fmt.Sprintf("account#%d", target.ID), actor.ID)
	}
	log.Debug().Uint("actor", actor.ID).Uint("target", target.ID).Bool("blocking", blocking).Msg("Block toggled.")
}

// ToggleBlock flips the block edge from actor to target and reports whether
// actor blocks target afterward. Blocking drops follows both ways, unblocking
// never brings them back.
func ToggleBlock(actor, target models.Account) (bool, error) {
	if actor.ID == target.ID {
		return false, fmt.Errorf("%w: you cannot block yourself", ErrPermissionDenied)
	}

	var blocking bool
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var edge models.Block
		err := tx.Where("blocker_id = ? AND blocked_id = ?", actor.ID, target.ID).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			blocking = true
			return createBlock(tx, actor, target)
		} else if err != nil {
			return err
		}
		blocking = false
		return tx.Delete(&edge).Error
	})
	if err != nil {
		return false, fmt.Errorf("unable to toggle block: %v", err)
	}

	afterBlockChanged(actor, target, blocking)
	return blocking, nil
}

// BlockAccount is the idempotent form of ToggleBlock for the blocked state.
func BlockAccount(actor, target models.Account) error {
	if actor.ID == target.ID {
		return fmt.Errorf("%w: you cannot block yourself", ErrPermissionDenied)
	}

	var created bool
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Block{}).
			Where("blocker_id = ? AND blocked_id = ?", actor.ID, target.ID).
			Count(&count).Error; err != nil {
			return err
		} else if count > 0 {
			return nil
		}
		created = true
		return createBlock(tx, actor, target)
	})
	if err != nil {
		return fmt.Errorf("unable to block account: %v", err)
	}

	if created {
		afterBlockChanged(actor, target, true)
	}
	return nil
}

func UnblockAccount(actor, target models.Account) error {
	if actor.ID == target.ID {
		return fmt.Errorf("%w: you cannot unblock yourself", ErrPermissionDenied)
	}

	tx := database.C.
		Where("blocker_id = ? AND blocked_id = ?", actor.ID, target.ID).
		Delete(&models.Block{})
	if tx.Error != nil {
		return fmt.Errorf("unable to unblock account: %v", tx.Error)
	}

	if tx.RowsAffected > 0 {
		afterBlockChanged(actor, target, false)
	}
	return nil
}

func ListBlocks(user models.Account) ([]models.Block, error) {
	var items []models.Block
	if err := database.C.
		Where("blocker_id = ?", user.ID).
		Preload("Blocked").
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to list blocks: %v", err)
	}
	return items, nil
}

func ListFollowers(user models.Account) ([]models.Account, error) {
	var items []models.Account
	if err := database.C.
		Joins("JOIN follows ON follows.follower_id = accounts.id").
		Where("follows.following_id = ?", user.ID).
		Order("follows.created_at DESC").
		Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to list followers: %v", err)
	}
	return items, nil
}

func ListFollowing(user models.Account) ([]models.Account, error) {
	var items []models.Account
	if err := database.C.
		Joins("JOIN follows ON follows.following_id = accounts.id").
		Where("follows.follower_id = ?", user.ID).
		Order("follows.created_at DESC").
		Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to list following: %v", err)
	}
	return items, nil
}

func CountFollowers(user uint) (int64, error) {
	var count int64
	err := database.C.Model(&models.Follow{}).Where("following_id = ?", user).Count(&count).Error
	return count, err
}

func CountFollowing(user uint) (int64, error) {
	var count int64
	err := database.C.Model(&models.Follow{}).Where("follower_id = ?", user).Count(&count).Error
	return count, err
}
