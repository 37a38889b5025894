package services

import (
	"fmt"
	"time"

	"github.com/okorintsev/habitweek/internal/models"
)

type CompletionHabitRepository interface {
	FindPlannedDay(habitID string, weekday int) (models.PlannedDay, bool, error)
	ApplyDayCompletion(day models.PlannedDay, fallback models.Occurrence) error
}

// CompletionService flips a planned day's completion flag and mirrors it
// onto the current week's occurrence, creating the occurrence on the spot
// when weekly materialization has not run yet.
type CompletionService struct {
	habits CompletionHabitRepository
}

func NewCompletionService(habits CompletionHabitRepository) *CompletionService {
	return &CompletionService{habits: habits}
}

func (service *CompletionService) SetDayCompletion(habitID string, weekday int, completed bool, now time.Time, location *time.Location) (models.PlannedDay, error) {
	if !models.ValidWeekday(weekday) {
		return models.PlannedDay{}, fmt.Errorf("%w: weekday %d out of range", ErrValidation, weekday)
	}

	day, found, err := service.habits.FindPlannedDay(habitID, weekday)
	if err != nil {
		return models.PlannedDay{}, err
	}
	if !found {
		return models.PlannedDay{}, ErrHabitNotFound
	}

	day.Completed = completed
	date := DateOfWeekday(now, weekday, location)
	if err := service.habits.ApplyDayCompletion(day, newOccurrenceForDay(day, date, completed)); err != nil {
		return models.PlannedDay{}, err
	}
	return day, nil
}

// SetTodayCompletion is SetDayCompletion with today's weekday index.
func (service *CompletionService) SetTodayCompletion(habitID string, completed bool, now time.Time, location *time.Location) (models.PlannedDay, error) {
	return service.SetDayCompletion(habitID, WeekdayIndex(DateAtLocation(now, location)), completed, now, location)
}
