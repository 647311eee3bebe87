package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getFeed(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	items, err := services.GetFeed(user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func getSuggestions(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	items, err := services.GetSuggestions(user)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

func getFeatured(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	take := c.QueryInt("take", 10)
	if take <= 0 || take > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "take must be between 1 and 100")
	}

	items, err := services.GetFeaturedPosts(user, take)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}
