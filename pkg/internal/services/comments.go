package services

import (
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"gorm.io/gorm"
)

func GetComment(id string) (models.Comment, error) {
	var item models.Comment
	if err := database.C.Preload("Account").Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("%w: comment %s", ErrNotFound, id)
		}
		return item, fmt.Errorf("unable to get comment: %v", err)
	}
	return item, nil
}

// ListCommentsByPost returns the comments oldest first.
func ListCommentsByPost(postID string) ([]models.Comment, error) {
	var items []models.Comment
	if err := database.C.
		Where("post_id = ?", postID).
		Preload("Account").
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to list comments: %v", err)
	}
	return items, nil
}

func NewComment(user models.Account, postID string, body string) (models.Comment, error) {
	var item models.Comment

	body = strings.TrimSpace(body)
	if len(body) == 0 {
		return item, fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	}

	post, err := GetPost(postID)
	if err != nil {
		return item, err
	}

	item = models.Comment{
		Body:      body,
		PostID:    post.ID,
		AccountID: user.ID,
	}
	if err := database.C.Create(&item).Error; err != nil {
		return item, fmt.Errorf("unable to create comment: %v", err)
	}
	item.Account = user

	if post.AccountID != user.ID {
		NotifyUser(
			post.Account,
			user,
			"commented on your post",
			models.NotificationTypeComment,
			&post.ID,
			fmt.Sprintf("/profile/%s", post.Account.Name),
		)
	}
	gap.AddEvent("posts.comment", fmt.Sprintf("post#%s", post.ID), user.ID)

	return item, nil
}

// DeleteComment is allowed to the author only, being an admin does not help.
func DeleteComment(item models.Comment, actor models.Account) error {
	if item.AccountID != actor.ID {
		return fmt.Errorf("%w: you can only delete your own comment", ErrPermissionDenied)
	}
	if err := database.C.Delete(&models.Comment{}, "id = ?", item.ID).Error; err != nil {
		return fmt.Errorf("unable to delete comment: %v", err)
	}
	return nil
}
