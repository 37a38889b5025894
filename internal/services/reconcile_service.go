package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okorintsev/habitweek/internal/models"
)

type ReconcileHabitRepository interface {
	FindByID(habitID string) (models.Habit, bool, error)
	ListPlannedDays(habitID string) ([]models.PlannedDay, error)
	ApplyRevision(revision models.PlanRevision) error
	DeleteWithPlan(habitID string, deletableDates []time.Time) error
}

// ReconcileService keeps the occurrence ledger consistent with an edited
// or deleted weekday plan. The one policy it enforces everywhere: an
// occurrence is deletable only while its date is not strictly in the past
// and it has not been completed; completed occurrences are history and are
// never touched.
type ReconcileService struct {
	habits ReconcileHabitRepository
}

func NewReconcileService(habits ReconcileHabitRepository) *ReconcileService {
	return &ReconcileService{habits: habits}
}

// EditHabit atomically applies a plan edit: drops weekdays absent from
// newWeekdays (deleting only still-deletable occurrences), adds weekdays
// not yet planned (materializing them eagerly unless their date already
// passed), refreshes completion flags on retained weekdays, and renames
// the habit.
func (service *ReconcileService) EditHabit(userID string, habitID string, name string, description string, newWeekdays []int, completedWeekdays []int, now time.Time, location *time.Location) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, fmt.Errorf("%w: habit name must not be empty", ErrValidation)
	}
	for _, weekday := range newWeekdays {
		if !models.ValidWeekday(weekday) {
			return models.Habit{}, fmt.Errorf("%w: weekday %d out of range", ErrValidation, weekday)
		}
	}

	habit, found, err := service.habits.FindByID(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if !found {
		return models.Habit{}, ErrHabitNotFound
	}

	existingDays, err := service.habits.ListPlannedDays(habitID)
	if err != nil {
		return models.Habit{}, err
	}

	planned := make(map[int]struct{}, len(existingDays))
	for _, day := range existingDays {
		planned[day.Weekday] = struct{}{}
	}
	wanted := make(map[int]struct{}, len(newWeekdays))
	for _, weekday := range newWeekdays {
		wanted[weekday] = struct{}{}
	}
	completed := make(map[int]struct{}, len(completedWeekdays))
	for _, weekday := range completedWeekdays {
		completed[weekday] = struct{}{}
	}

	today := DateAtLocation(now, location)
	revision := models.PlanRevision{
		HabitID:            habitID,
		Name:               name,
		Description:        description,
		RetainedCompletion: make(map[int]bool),
	}

	for _, day := range existingDays {
		if _, keep := wanted[day.Weekday]; keep {
			_, isCompleted := completed[day.Weekday]
			revision.RetainedCompletion[day.Weekday] = isCompleted
			continue
		}

		revision.DropWeekdays = append(revision.DropWeekdays, day.Weekday)
		date := DateOfWeekday(now, day.Weekday, location)
		if !date.Before(today) {
			revision.DropOccurrenceDates = append(revision.DropOccurrenceDates, date)
		}
	}

	for _, weekday := range distinctSortedWeekdays(newWeekdays) {
		if _, exists := planned[weekday]; exists {
			continue
		}
		day := models.PlannedDay{
			ID:      uuid.NewString(),
			HabitID: habitID,
			UserID:  userID,
			Weekday: weekday,
		}
		revision.NewDays = append(revision.NewDays, day)

		date := DateOfWeekday(now, weekday, location)
		if !date.Before(today) {
			revision.NewOccurrences = append(revision.NewOccurrences, newOccurrenceForDay(day, date, false))
		}
	}

	if err := service.habits.ApplyRevision(revision); err != nil {
		return models.Habit{}, err
	}

	habit.Name = name
	habit.Description = description
	return habit, nil
}

// DeleteHabit removes the habit and its plan. Occurrences for the current
// week that are still deletable go with it; completed and past ones stay,
// with their habit and planned-day references nulled by the store.
func (service *ReconcileService) DeleteHabit(habitID string, now time.Time, location *time.Location) error {
	_, found, err := service.habits.FindByID(habitID)
	if err != nil {
		return err
	}
	if !found {
		return ErrHabitNotFound
	}

	today := DateAtLocation(now, location)
	deletableDates := make([]time.Time, 0, models.WeekdayMax+1)
	for weekday := models.WeekdayMin; weekday <= models.WeekdayMax; weekday++ {
		date := DateOfWeekday(now, weekday, location)
		if !date.Before(today) {
			deletableDates = append(deletableDates, date)
		}
	}

	return service.habits.DeleteWithPlan(habitID, deletableDates)
}
