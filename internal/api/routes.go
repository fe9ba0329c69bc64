package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/verify-email", handler.AuthRequired, handler.VerifyEmail)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Post("/notifications", handler.UpdateNotificationSettings)

	habits := api.Group("/habits", handler.AuthRequired)
	habits.Post("", handler.CreateHabit)
	habits.Get("", handler.ListHabits)
	habits.Get("/:id", handler.GetHabit)
	habits.Put("/:id", handler.UpdateHabit)
	habits.Delete("/:id", handler.DeleteHabit)

	habits.Post("/:id/entries", handler.LogEntry)
	habits.Get("/:id/entries", handler.ListEntries)
	habits.Put("/:id/entries/:date", handler.UpdateEntry)

	habits.Get("/:id/stats", handler.GetHabitStats)
	habits.Get("/:id/heatmap", handler.GetHabitHeatmap)

	stats := api.Group("/stats", handler.AuthRequired)
	stats.Get("/overview", handler.GetStatsOverview)
}
