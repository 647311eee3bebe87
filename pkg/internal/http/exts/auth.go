package exts

import (
	"strings"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const SessionCookieName = "circle_session"

func readToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Cookies(SessionCookieName)
}

// ContextMiddleware resolves the session of the request, if any, into the
// "user" and "session_token" locals. Invalid tokens are treated as anonymous.
func ContextMiddleware(c *fiber.Ctx) error {
	token := readToken(c)
	if len(token) == 0 {
		return c.Next()
	}

	if user, err := services.ParseSession(token); err == nil {
		c.Locals("user", user)
		c.Locals("session_token", token)
	}

	return c.Next()
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Account); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "login required")
	}
	return nil
}

func EnsureAdmin(c *fiber.Ctx) error {
	if err := EnsureAuthenticated(c); err != nil {
		return err
	}
	if !c.Locals("user").(models.Account).IsAdmin {
		return fiber.NewError(fiber.StatusForbidden, "admin permission required")
	}
	return nil
}

func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Domain:   viper.GetString("security.cookie_domain"),
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Domain:   viper.GetString("security.cookie_domain"),
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
