package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ember/internal/models"
	"github.com/terraincognita07/ember/internal/services"
)

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := habitInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	habit, err := handler.habitService.Create(user.ID, habitServiceInput(input), time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(habitView(habit))
}

func (handler *Handler) ListHabits(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	habits, err := handler.habitService.List(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to list habits")
	}

	views := make([]fiber.Map, 0, len(habits))
	for _, habit := range habits {
		views = append(views, habitView(habit))
	}
	return c.JSON(views)
}

func (handler *Handler) GetHabit(c *fiber.Ctx) error {
	user, habitID, ok := handler.habitRequest(c)
	if !ok {
		return nil
	}

	habit, err := handler.habitService.Get(user.ID, habitID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(habitView(habit))
}

func (handler *Handler) UpdateHabit(c *fiber.Ctx) error {
	user, habitID, ok := handler.habitRequest(c)
	if !ok {
		return nil
	}

	input := habitInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	habit, err := handler.habitService.Update(user.ID, habitID, habitServiceInput(input), active)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(habitView(habit))
}

func (handler *Handler) DeleteHabit(c *fiber.Ctx) error {
	user, habitID, ok := handler.habitRequest(c)
	if !ok {
		return nil
	}

	if err := handler.habitService.Delete(user.ID, habitID, time.Now().In(handler.location)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// habitRequest resolves the session user and the :id parameter. On failure
// the error response is already written; a false return means stop.
func (handler *Handler) habitRequest(c *fiber.Ctx) (*models.User, uint, bool) {
	user, ok := currentUser(c)
	if !ok {
		apiError(c, fiber.StatusUnauthorized, "unauthorized")
		return nil, 0, false
	}

	rawID := c.Params("id")
	parsed, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || parsed == 0 {
		apiError(c, fiber.StatusBadRequest, "invalid habit id")
		return nil, 0, false
	}
	return user, uint(parsed), true
}

func habitServiceInput(input habitInput) services.HabitInput {
	return services.HabitInput{
		Name:         input.Name,
		Description:  input.Description,
		Frequency:    input.Frequency,
		ScheduleDays: input.ScheduleDays,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Timezone:     input.Timezone,
		ReminderTime: input.ReminderTime,
	}
}

func habitView(habit models.Habit) fiber.Map {
	view := fiber.Map{
		"id":            habit.ID,
		"name":          habit.Name,
		"description":   habit.Description,
		"frequency":     habit.Frequency,
		"schedule_days": habit.ScheduleDays,
		"start_date":    services.DayKeyString(habit.StartDate),
		"timezone":      habit.Timezone,
		"reminder_time": habit.ReminderTime,
		"active":        habit.Active,
	}
	if habit.EndDate != nil {
		view["end_date"] = services.DayKeyString(*habit.EndDate)
	}
	return view
}
