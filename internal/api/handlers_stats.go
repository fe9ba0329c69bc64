package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ember/internal/services"
)

func (handler *Handler) GetHabitStats(c *fiber.Ctx) error {
	habit, ok := handler.requestedHabit(c)
	if !ok {
		return nil
	}

	stats, err := handler.statsService.BuildHabitStats(habit, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build stats")
	}
	return c.JSON(stats)
}

func (handler *Handler) GetHabitHeatmap(c *fiber.Ctx) error {
	habit, ok := handler.requestedHabit(c)
	if !ok {
		return nil
	}

	location := services.LoadLocationOrUTC(habit.Timezone)
	from, parseErr := services.DayKeyFromString(c.Query("from"), location)
	if parseErr != nil {
		return serviceError(c, parseErr)
	}
	to, parseErr := services.DayKeyFromString(c.Query("to"), location)
	if parseErr != nil {
		return serviceError(c, parseErr)
	}

	entries, buildErr := handler.statsService.BuildHeatmap(habit, from, to)
	if buildErr != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build heatmap")
	}
	return c.JSON(entries)
}

func (handler *Handler) GetStatsOverview(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	overview, err := handler.statsService.BuildOverview(user.ID, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build overview")
	}
	return c.JSON(overview)
}
