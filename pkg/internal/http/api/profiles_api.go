package api

import (
	"io"

	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func currentUser(c *fiber.Ctx) models.Account {
	user, _ := c.Locals("user").(models.Account)
	return user
}

func listProfiles(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	items, err := services.SearchProfiles(c.Query("username"))
	if err != nil {
		return err
	}

	return c.JSON(items)
}

func getMyProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	profile, err := services.GetProfile(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}

func updateMyProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Bio      string `json:"bio" form:"bio" validate:"max=4096"`
		Location string `json:"location" form:"location" validate:"max=100"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var avatar io.Reader
	var filename string
	if file, err := c.FormFile("avatar"); err == nil {
		reader, err := file.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer reader.Close()
		avatar, filename = reader, file.Filename
	}

	profile, err := services.UpdateProfile(user, data.Bio, data.Location, avatar, filename)
	if err != nil {
		return err
	}

	return c.JSON(profile)
}

func getProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	view, err := services.ViewProfile(c.Params("name"), currentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(view)
}
