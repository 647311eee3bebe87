package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listNotifications(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	limit := services.NotificationListLimit
	if c.QueryBool("all", false) {
		limit = 0
	}

	items, err := services.ListNotifications(user, limit)
	if err != nil {
		return err
	}
	unread, err := services.CountUnreadNotifications(user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"unread": unread,
		"data":   items,
	})
}

func markNotificationRead(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	id, err := c.ParamsInt("notificationId", 0)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
	}

	item, err := services.MarkNotificationRead(user, uint(id))
	if err != nil {
		return err
	}

	return c.JSON(item)
}

func markAllNotificationsRead(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	count, err := services.MarkAllNotificationsRead(user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}
