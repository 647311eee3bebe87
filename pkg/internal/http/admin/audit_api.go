package admin

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func adminTriggerLikeAudit(c *fiber.Ctx) error {
	if err := exts.EnsureAdmin(c); err != nil {
		return err
	}

	count, err := services.AuditLikeCounters()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"repaired": count,
	})
}
