package handler

import (
	"go-cms-admin/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// fail translates a service error to its HTTP status.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
