package handler

import (
	"github.com/gofiber/fiber/v2"

	"auditapi/internal/http/middleware"
	"auditapi/internal/repository"
)

// Me returns the current authenticated actor as resolved by the Actor
// middleware.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		return c.JSON(actor)
	}
}

// ListActors returns all known actors, for responder pickers.
func ListActors(actors repository.ActorRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := actors.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": items})
	}
}
