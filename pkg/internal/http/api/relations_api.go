package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

// resolveListTarget reads ?user=, falling back to the caller.
func resolveListTarget(c *fiber.Ctx) (models.Account, error) {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return models.Account{}, err
	}
	if name := c.Query("user"); len(name) > 0 {
		return services.GetAccountByName(name)
	}
	return c.Locals("user").(models.Account), nil
}

func toggleFollow(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		User string `json:"user" form:"user" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	target, err := services.GetAccountByName(data.User)
	if err != nil {
		return err
	}

	following, err := services.ToggleFollow(user, target)
	if err != nil {
		return err
	}

	count, _ := services.CountFollowers(target.ID)
	return c.JSON(fiber.Map{
		"following":      following,
		"follower_count": count,
	})
}

func listFollowers(c *fiber.Ctx) error {
	target, err := resolveListTarget(c)
	if err != nil {
		return err
	}

	items, err := services.ListFollowers(target)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

func listFollowing(c *fiber.Ctx) error {
	target, err := resolveListTarget(c)
	if err != nil {
		return err
	}

	items, err := services.ListFollowing(target)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

func bindBlockTarget(c *fiber.Ctx) (models.Account, error) {
	var data struct {
		Blocked string `json:"blocked" form:"blocked" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return models.Account{}, err
	}

	return services.GetAccountByName(data.Blocked)
}

func toggleBlock(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	target, err := bindBlockTarget(c)
	if err != nil {
		return err
	}

	blocking, err := services.ToggleBlock(user, target)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"blocked": blocking,
	})
}

func blockUser(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	target, err := bindBlockTarget(c)
	if err != nil {
		return err
	}

	if err := services.BlockAccount(user, target); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"blocked": true,
	})
}

func unblockUser(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	target, err := bindBlockTarget(c)
	if err != nil {
		return err
	}

	if err := services.UnblockAccount(user, target); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"blocked": false,
	})
}

func listBlocks(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	items, err := services.ListBlocks(user)
	if err != nil {
		return err
	}

	return c.JSON(items)
}
