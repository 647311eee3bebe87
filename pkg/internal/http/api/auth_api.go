package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func signup(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"username" form:"username" validate:"required,max=150"`
		Email    string `json:"email" form:"email" validate:"required,email"`
		Password string `json:"password" form:"password" validate:"required"`
		Confirm  string `json:"password2" form:"password2" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, profile, err := services.Signup(data.Name, data.Email, data.Password, data.Confirm)
	if err != nil {
		return err
	}

	token, claims, err := services.GrantSession(account)
	if err != nil {
		return err
	}
	exts.SetSessionCookie(c, token, claims.ExpiresAt.Time)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"account": account,
		"email":   account.Email,
		"profile": profile,
		"token":   token,
	})
}

func login(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.Authenticate(data.Name, data.Password)
	if err != nil {
		return err
	}

	token, claims, err := services.GrantSession(account)
	if err != nil {
		return err
	}
	exts.SetSessionCookie(c, token, claims.ExpiresAt.Time)

	return c.JSON(fiber.Map{
		"account":    account,
		"token":      token,
		"expired_at": claims.ExpiresAt.Time,
	})
}

func logout(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	if token, ok := c.Locals("session_token").(string); ok {
		if err := services.RevokeSession(token); err != nil {
			return err
		}
	}
	exts.ClearSessionCookie(c)

	return c.SendStatus(fiber.StatusOK)
}

func getCurrentUser(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	profile, err := services.GetProfile(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"account": user,
		"email":   user.Email,
		"profile": profile,
	})
}
