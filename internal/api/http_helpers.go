package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ember/internal/models"
	"github.com/terraincognita07/ember/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

// serviceError maps domain sentinels onto HTTP statuses; anything unknown is
// a 500 with a generic message so internals never leak.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidDate):
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	case errors.Is(err, services.ErrInvalidHabitInput):
		return apiError(c, fiber.StatusBadRequest, "invalid habit input")
	case errors.Is(err, services.ErrInvalidEntryInput):
		return apiError(c, fiber.StatusBadRequest, "invalid entry input")
	case errors.Is(err, services.ErrHabitNotFound):
		return apiError(c, fiber.StatusNotFound, "habit not found")
	case errors.Is(err, services.ErrEntryNotFound):
		return apiError(c, fiber.StatusNotFound, "entry not found")
	case errors.Is(err, services.ErrEntryExists):
		return apiError(c, fiber.StatusConflict, "day already logged")
	case errors.Is(err, services.ErrScheduleViolation):
		return apiError(c, fiber.StatusUnprocessableEntity, "habit is not due on this day")
	default:
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
