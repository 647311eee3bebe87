package services

import (
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/gap"
	"git.solsynth.dev/hypernet/circle/pkg/internal/metrics"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const NotificationListLimit = 40

// NotifyUser is the only place notifications get written.
// It never fails the caller, errors are logged and counted.
func NotifyUser(recipient, actor models.Account, verb, kind string, postID *string, url string) {
	item := models.Notification{
		Verb:        verb,
		Type:        kind,
		PostID:      postID,
		URL:         url,
		RecipientID: recipient.ID,
		ActorID:     actor.ID,
		Metadata: datatypes.JSONMap{
			"actor_name": actor.Name,
		},
	}

	if err := database.C.Create(&item).Error; err != nil {
		log.Warn().Err(err).
			Uint("recipient", recipient.ID).
			Str("type", kind).
			Msg("An error occurred when notifying account...")
		metrics.NotificationsDropped.WithLabelValues(kind).Inc()
		return
	}

	log.Debug().Uint("recipient", recipient.ID).Str("type", kind).Msg("Notified account.")
	metrics.NotificationsEmitted.WithLabelValues(kind).Inc()
	gap.AddEvent("notifications.new", fmt.Sprintf("notification#%d", item.ID), recipient.ID, item)
}

func ListNotifications(user models.Account, limit int) ([]models.Notification, error) {
	var items []models.Notification
	tx := database.C.
		Where("recipient_id = ?", user.ID).
		Preload("Actor").
		Preload("Recipient").
		Order("created_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&items).Error; err != nil {
		return items, fmt.Errorf("unable to list notifications: %v", err)
	}
	return items, nil
}

func CountUnreadNotifications(user models.Account) (int64, error) {
	var count int64
	err := database.C.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", user.ID, false).
		Count(&count).Error
	return count, err
}

func MarkNotificationRead(user models.Account, id uint) (models.Notification, error) {
	var item models.Notification
	if err := database.C.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("%w: notification #%d", ErrNotFound, id)
		}
		return item, fmt.Errorf("unable to get notification: %v", err)
	}

	if item.RecipientID != user.ID {
		return item, fmt.Errorf("%w: notification belongs to someone else", ErrPermissionDenied)
	}
	if item.Read {
		return item, nil
	}

	if err := database.C.Model(&item).Update("read", true).Error; err != nil {
		return item, fmt.Errorf("unable to mark notification as read: %v", err)
	}
	item.Read = true
	return item, nil
}

// MarkAllNotificationsRead returns how many notifications changed state.
func MarkAllNotificationsRead(user models.Account) (int64, error) {
	tx := database.C.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", user.ID, false).
		Update("read", true)
	if tx.Error != nil {
		return 0, fmt.Errorf("unable to mark notifications as read: %v", tx.Error)
	}
	return tx.RowsAffected, nil
}
