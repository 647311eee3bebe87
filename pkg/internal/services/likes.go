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

func IsPostLiked(user uint, post string) (bool, error) {
	var count int64
	err := database.C.Model(&models.PostLike{}).
		Where("account_id = ? AND post_id = ?", user, post).
		Count(&count).Error
	return count > 0, err
}

// ToggleLike flips the like of user on the post. The edge and the counter
// change in one transaction, the counter moves with an in-database expression.
func ToggleLike(user models.Account, postID string) (bool, models.Post, error) {
	var liked bool
	var item models.Post

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", postID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post %s", ErrNotFound, postID)
			}
			return err
		}

		var edge models.PostLike
		err := tx.Where("post_id = ? AND account_id = ?", item.ID, user.ID).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			liked = true
			if err := tx.Create(&models.PostLike{PostID: item.ID, AccountID: user.ID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", item.ID).
				Update("no_of_likes", gorm.Expr("no_of_likes + ?", 1)).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			liked = false
			if err := tx.Delete(&edge).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", item.ID).
				Update("no_of_likes", gorm.Expr("no_of_likes - ?", 1)).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Account").Where("id = ?", item.ID).First(&item).Error
	})
	if errors.Is(err, ErrNotFound) {
		return false, item, err
	} else if err != nil {
		return false, item, fmt.Errorf("unable to toggle like: %v", err)
	}

	metrics.RelationToggles.WithLabelValues("like", stateLabel(liked)).Inc()

	if liked {
		if item.AccountID != user.ID {
			NotifyUser(
				item.Account,
				user,
				"liked your post",
				models.NotificationTypeLike,
				&item.ID,
				fmt.Sprintf("/profile/%s", item.Account.Name),
			)
		}
		gap.AddEvent("posts.like", fmt.Sprintf("post#%s", item.ID), user.ID)
	} else {
		gap.AddEvent("posts.unlike", fmt.Sprintf("post#%s", item.ID), user.ID)
	}

	log.Debug().Str("post", item.ID).Uint("account", user.ID).Bool("liked", liked).Msg("Like toggled.")
	return liked, item, nil
}
