package api

import (
	"fmt"
	"strings"

	"github.com/okorintsev/habitweek/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type habitCreateRequest struct {
	HabitName   string `json:"habitName"`
	Description string `json:"description"`
	Days        []int  `json:"days"`
}

func (request habitCreateRequest) validate() error {
	if strings.TrimSpace(request.HabitName) == "" {
		return fmt.Errorf("habit name must be populated")
	}
	if len(request.Days) == 0 {
		return fmt.Errorf("days must be populated")
	}
	for _, day := range request.Days {
		if !models.ValidWeekday(day) {
			return fmt.Errorf("day %d out of range", day)
		}
	}
	return nil
}

type habitDayInput struct {
	Weekday   int  `json:"dayOfWeek"`
	Completed bool `json:"completed"`
}

type habitEditRequest struct {
	HabitName   string          `json:"habitName"`
	Description string          `json:"description"`
	Days        []habitDayInput `json:"days"`
}

func (request habitEditRequest) weekdays() []int {
	weekdays := make([]int, 0, len(request.Days))
	for _, day := range request.Days {
		weekdays = append(weekdays, day.Weekday)
	}
	return weekdays
}

func (request habitEditRequest) completedWeekdays() []int {
	completed := make([]int, 0, len(request.Days))
	for _, day := range request.Days {
		if day.Completed {
			completed = append(completed, day.Weekday)
		}
	}
	return completed
}

type habitStatsRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
