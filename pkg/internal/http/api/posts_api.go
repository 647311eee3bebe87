package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	name := c.Query("author")
	if len(name) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "author is required")
	}

	// Same visibility rules as the profile page.
	view, err := services.ViewProfile(name, currentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count":      len(view.Posts),
		"data":       view.Posts,
		"visibility": view.Visibility,
	})
}

func getPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	item, err := services.GetPost(c.Params("postId"))
	if err != nil {
		return err
	}

	user := currentUser(c)
	if user.ID > 0 && user.ID != item.AccountID {
		rel, err := services.GetRelationContext(user.ID)
		if err != nil {
			return err
		} else if rel.IsHidden(item.AccountID) {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
	}

	if item, err = services.CompleteSinglePostMeta(item, user.ID); err != nil {
		return err
	}

	return c.JSON(item)
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Caption string `json:"caption" form:"caption" validate:"max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image is required")
	}
	reader, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer reader.Close()

	item, err := services.NewPost(user, reader, file.Filename, data.Caption)
	if err != nil {
		return err
	}
	if item, err = services.CompleteSinglePostMeta(item, user.ID); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	item, err := services.GetPost(c.Params("postId"))
	if err != nil {
		return err
	}

	if err := services.DeletePost(item, user); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

func toggleLike(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	liked, item, err := services.ToggleLike(user, c.Params("postId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"liked":       liked,
		"no_of_likes": item.NoOfLikes,
	})
}
