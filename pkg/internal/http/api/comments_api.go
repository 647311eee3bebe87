package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listComments(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	post, err := services.GetPost(c.Params("postId"))
	if err != nil {
		return err
	}

	items, err := services.ListCommentsByPost(post.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func createComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Body string `json:"body" form:"body" validate:"max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewComment(user, c.Params("postId"), data.Body)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deleteComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	item, err := services.GetComment(c.Params("commentId"))
	if err != nil {
		return err
	}

	if err := services.DeleteComment(item, user); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}
