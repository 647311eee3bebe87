package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func PreloadGeneral(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Account")
}

func GetPost(id string) (models.Post, error) {
	var item models.Post
	if err := PreloadGeneral(database.C).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return item, fmt.Errorf("unable to get post: %v", err)
	}
	return item, nil
}

func ListPostByAuthor(author uint) ([]models.Post, error) {
	var items []models.Post
	if err := PreloadGeneral(database.C).
		Where("account_id = ?", author).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to list posts: %v", err)
	}
	return items, nil
}

func CountPostByAuthor(author uint) (int64, error) {
	var count int64
	err := database.C.Model(&models.Post{}).Where("account_id = ?", author).Count(&count).Error
	return count, err
}

type commentCount struct {
	PostID string
	Count  int64
}

// CompletePostMeta fills the per-viewer fields of the posts in place.
// A zero viewer means an anonymous request.
func CompletePostMeta(items []models.Post, viewer uint) ([]models.Post, error) {
	if len(items) == 0 {
		return items, nil
	}

	idx := lo.Map(items, func(item models.Post, _ int) string {
		return item.ID
	})

	var liked []string
	if viewer > 0 {
		if err := database.C.Model(&models.PostLike{}).
			Where("account_id = ? AND post_id IN ?", viewer, idx).
			Pluck("post_id", &liked).Error; err != nil {
			return items, fmt.Errorf("unable to load likes: %v", err)
		}
	}

	var counts []commentCount
	if err := database.C.Model(&models.Comment{}).
		Select("post_id, COUNT(id) AS count").
		Where("post_id IN ?", idx).
		Group("post_id").
		Scan(&counts).Error; err != nil {
		return items, fmt.Errorf("unable to count comments: %v", err)
	}
	countMap := lo.SliceToMap(counts, func(item commentCount) (string, int64) {
		return item.PostID, item.Count
	})

	for i := range items {
		items[i].Metric = models.PostMetric{
			ImageURL:     GetMediaURL(items[i].Image),
			IsLiked:      lo.Contains(liked, items[i].ID),
			CommentCount: countMap[items[i].ID],
		}
	}

	return items, nil
}

func CompleteSinglePostMeta(item models.Post, viewer uint) (models.Post, error) {
	items, err := CompletePostMeta([]models.Post{item}, viewer)
	if err != nil {
		return item, err
	}
	return items[0], nil
}

// NewPost stores the image first and removes it again if the row cannot be written.
func NewPost(user models.Account, image io.Reader, filename, caption string) (models.Post, error) {
	var item models.Post
	if image == nil || len(filename) == 0 {
		return item, fmt.Errorf("%w: image is required", ErrValidation)
	}
	if _, err := CheckImageExtension(filename); err != nil {
		return item, err
	}

	key, err := SaveMedia("posts", image, filename)
	if err != nil {
		return item, err
	}

	caption = strings.TrimSpace(caption)
	item = models.Post{
		Image:     key,
		Caption:   caption,
		Language:  DetectLanguage(caption),
		AccountID: user.ID,
	}
	if err := database.C.Create(&item).Error; err != nil {
		DeleteMedia(key)
		return item, fmt.Errorf("unable to create post: %v", err)
	}
	item.Account = user

	gap.AddEvent("posts.new", fmt.Sprintf("post#%s", item.ID), user.ID)
	log.Debug().Str("post", item.ID).Uint("account", user.ID).Msg("A new post has been created.")
	return item, nil
}

func CanDeletePost(item models.Post, actor models.Account) bool {
	return item.AccountID == actor.ID || actor.IsAdmin
}

// DeletePost drops the post with its likes and comments, then its image.
func DeletePost(item models.Post, actor models.Account) error {
	if !CanDeletePost(item, actor) {
		return fmt.Errorf("%w: you can only delete your own post", ErrPermissionDenied)
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", item.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", item.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", item.ID).Error
	})
	if err != nil {
		return fmt.Errorf("unable to delete post: %v", err)
	}

	DeleteMedia(item.Image)
	gap.AddEvent("posts.delete", fmt.Sprintf("post#%s", item.ID), actor.ID)
	return nil
}
