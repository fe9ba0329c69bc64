package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ember/internal/models"
	"github.com/terraincognita07/ember/internal/services"
)

func (handler *Handler) LogEntry(c *fiber.Ctx) error {
	habit, ok := handler.requestedHabit(c)
	if !ok {
		return nil
	}

	input := entryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	record, err := handler.entryService.Log(habit, entryServiceInput(input))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entryView(record))
}

func (handler *Handler) UpdateEntry(c *fiber.Ctx) error {
	habit, ok := handler.requestedHabit(c)
	if !ok {
		return nil
	}

	input := entryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	input.Date = c.Params("date")

	record, err := handler.entryService.Update(habit, entryServiceInput(input))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(entryView(record))
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	habit, ok := handler.requestedHabit(c)
	if !ok {
		return nil
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return apiError(c, fiber.StatusBadRequest, "from and to are required")
	}

	records, err := handler.entryService.ListRange(habit, from, to)
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]fiber.Map, 0, len(records))
	for _, record := range records {
		views = append(views, entryView(record))
	}
	return c.JSON(views)
}

// requestedHabit loads the habit named by :id for the session user. On
// failure the error response is already written; a false return means stop.
func (handler *Handler) requestedHabit(c *fiber.Ctx) (models.Habit, bool) {
	user, habitID, ok := handler.habitRequest(c)
	if !ok {
		return models.Habit{}, false
	}

	habit, err := handler.habitService.Get(user.ID, habitID)
	if err != nil {
		serviceError(c, err)
		return models.Habit{}, false
	}
	return habit, true
}

func entryServiceInput(input entryInput) services.EntryInput {
	return services.EntryInput{
		Date:            input.Date,
		Status:          input.Status,
		PercentComplete: input.PercentComplete,
		Notes:           input.Notes,
	}
}

func entryView(record models.CompletionRecord) fiber.Map {
	view := fiber.Map{
		"id":        record.ID,
		"habit_id":  record.HabitID,
		"day":       services.DayKeyString(record.Day),
		"status":    record.Status,
		"completed": record.Completed,
		"notes":     record.Notes,
	}
	if record.PercentComplete != nil {
		view["percent_complete"] = *record.PercentComplete
	}
	return view
}
