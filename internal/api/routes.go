package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)

	habits := api.Group("/habits", handler.AuthRequired)
	habits.Get("", handler.GetWeeklyHabits)
	habits.Get("/today", handler.GetTodayTasks)
	habits.Get("/completion-metrics", handler.GetCompletionMetrics)
	habits.Post("", handler.CreateHabit)
	habits.Post("/stats", handler.GetHabitStats)
	habits.Put("/today/:id/complete/:completed", handler.CompleteToday)
	habits.Put("/:id/days/:day/complete/:completed", handler.CompleteDay)
	habits.Put("/:id", handler.EditHabit)
	habits.Delete("/:id", handler.DeleteHabit)
}
