package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/okorintsev/habitweek/internal/services"
)

// GetCompletionMetrics returns per-day completion counts over the default
// trailing window, materializing the current week first.
func (handler *Handler) GetCompletionMetrics(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()
	startDate, endDate := services.DefaultMetricsRange(now, handler.location)
	days, err := handler.metricsService.DailyMetrics(user.ID, startDate, endDate, now, handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"startDate": startDate.Format("2006-01-02"),
		"endDate":   endDate.Format("2006-01-02"),
		"days":      days,
	})
}

func (handler *Handler) GetHabitStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var request habitStatsRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	startDate, err := services.ParseISODate(request.StartDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "startDate must be yyyy-mm-dd")
	}
	endDate, err := services.ParseISODate(request.EndDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "endDate must be yyyy-mm-dd")
	}

	stats, err := handler.metricsService.HabitStats(user.ID, startDate, endDate)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}
