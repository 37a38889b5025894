package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/okorintsev/habitweek/internal/services"
)

func (handler *Handler) GetWeeklyHabits(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	habits, err := handler.scheduleService.FetchWeeklyHabits(user.ID, time.Now(), handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"habits": habits})
}

func (handler *Handler) GetTodayTasks(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()
	tasks, err := handler.scheduleService.FetchTodayTasks(user.ID, now, handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"tasks": tasks,
		"today": services.WeekdayIndex(services.DateAtLocation(now, handler.location)),
	})
}

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var request habitCreateRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := request.validate(); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	habit, err := handler.scheduleService.CreateHabit(
		user.ID, request.HabitName, request.Description, request.Days, time.Now(), handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(habit)
}

func (handler *Handler) EditHabit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	habitID := c.Params("id")

	var request habitEditRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	now := time.Now()
	if _, err := handler.reconcileService.EditHabit(
		user.ID, habitID, request.HabitName, request.Description,
		request.weekdays(), request.completedWeekdays(), now, handler.location); err != nil {
		return serviceError(c, err)
	}

	habit, err := handler.scheduleService.FetchWeeklyHabit(habitID, now, handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(habit)
}

func (handler *Handler) DeleteHabit(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.reconcileService.DeleteHabit(c.Params("id"), time.Now(), handler.location); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CompleteToday(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	completed, err := strconv.ParseBool(c.Params("completed"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "completed must be true or false")
	}

	now := time.Now()
	if _, err := handler.completionService.SetTodayCompletion(c.Params("id"), completed, now, handler.location); err != nil {
		return serviceError(c, err)
	}

	tasks, err := handler.scheduleService.FetchTodayTasks(user.ID, now, handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"tasks": tasks,
		"today": services.WeekdayIndex(services.DateAtLocation(now, handler.location)),
	})
}

func (handler *Handler) CompleteDay(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	weekday, err := strconv.Atoi(c.Params("day"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "day must be a weekday index")
	}
	completed, err := strconv.ParseBool(c.Params("completed"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "completed must be true or false")
	}

	day, err := handler.completionService.SetDayCompletion(c.Params("id"), weekday, completed, time.Now(), handler.location)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"dayOfWeek": day.Weekday,
		"completed": day.Completed,
	})
}
