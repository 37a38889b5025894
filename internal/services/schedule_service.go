package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okorintsev/habitweek/internal/models"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrHabitNotFound = errors.New("habit not found")
)

type ScheduleHabitRepository interface {
	FindByID(habitID string) (models.Habit, bool, error)
	ListByUser(userID string) ([]models.Habit, error)
	ListPlannedDays(habitID string) ([]models.PlannedDay, error)
	ListPlannedDaysByUser(userID string) ([]models.PlannedDay, error)
	CreateWithPlan(habit *models.Habit, days []models.PlannedDay, occurrences []models.Occurrence) error
}

// WeeklyHabit is a habit with its plan projected onto the current week.
type WeeklyHabit struct {
	ID          string        `json:"id"`
	Name        string        `json:"habitName"`
	Description string        `json:"description,omitempty"`
	Days        []WeekdayView `json:"days"`
}

type WeekdayView struct {
	Weekday        int    `json:"dayOfWeek"`
	Date           string `json:"dateOfWeek"`
	Completed      bool   `json:"completed"`
	BeforeCreation bool   `json:"isBeforeCreationDate"`
}

// TodayTask is one habit planned for today's weekday.
type TodayTask struct {
	HabitID   string `json:"id"`
	Name      string `json:"habitName"`
	Weekday   int    `json:"dayOfWeek"`
	Completed bool   `json:"completed"`
}

type ScheduleService struct {
	habits ScheduleHabitRepository
}

func NewScheduleService(habits ScheduleHabitRepository) *ScheduleService {
	return &ScheduleService{habits: habits}
}

// CreateHabit creates a habit with one planned day per distinct weekday,
// plus a current-week occurrence for every planned day whose date has not
// already passed. All rows land in one transaction.
func (service *ScheduleService) CreateHabit(userID string, name string, description string, weekdays []int, now time.Time, location *time.Location) (WeeklyHabit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return WeeklyHabit{}, fmt.Errorf("%w: habit name must not be empty", ErrValidation)
	}
	for _, weekday := range weekdays {
		if !models.ValidWeekday(weekday) {
			return WeeklyHabit{}, fmt.Errorf("%w: weekday %d out of range", ErrValidation, weekday)
		}
	}

	habit := models.Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
	}

	today := DateAtLocation(now, location)
	days := make([]models.PlannedDay, 0, len(weekdays))
	occurrences := make([]models.Occurrence, 0, len(weekdays))
	for _, weekday := range distinctSortedWeekdays(weekdays) {
		day := models.PlannedDay{
			ID:      uuid.NewString(),
			HabitID: habit.ID,
			UserID:  userID,
			Weekday: weekday,
		}
		days = append(days, day)

		date := DateOfWeekday(now, weekday, location)
		if !date.Before(today) {
			occurrences = append(occurrences, newOccurrenceForDay(day, date, false))
		}
	}

	if err := service.habits.CreateWithPlan(&habit, days, occurrences); err != nil {
		return WeeklyHabit{}, err
	}
	return service.weeklyView(habit, days, now, location), nil
}

func (service *ScheduleService) FindHabit(habitID string) (models.Habit, error) {
	habit, found, err := service.habits.FindByID(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if !found {
		return models.Habit{}, ErrHabitNotFound
	}
	return habit, nil
}

func (service *ScheduleService) ListPlannedDays(habitID string) ([]models.PlannedDay, error) {
	return service.habits.ListPlannedDays(habitID)
}

// FetchWeeklyHabits returns every habit of the user with its plan mapped
// onto concrete current-week dates.
func (service *ScheduleService) FetchWeeklyHabits(userID string, now time.Time, location *time.Location) ([]WeeklyHabit, error) {
	habits, err := service.habits.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	allDays, err := service.habits.ListPlannedDaysByUser(userID)
	if err != nil {
		return nil, err
	}
	daysByHabit := make(map[string][]models.PlannedDay, len(habits))
	for _, day := range allDays {
		daysByHabit[day.HabitID] = append(daysByHabit[day.HabitID], day)
	}

	weekly := make([]WeeklyHabit, 0, len(habits))
	for _, habit := range habits {
		weekly = append(weekly, service.weeklyView(habit, daysByHabit[habit.ID], now, location))
	}
	return weekly, nil
}

// FetchWeeklyHabit projects a single habit onto the current week.
func (service *ScheduleService) FetchWeeklyHabit(habitID string, now time.Time, location *time.Location) (WeeklyHabit, error) {
	habit, err := service.FindHabit(habitID)
	if err != nil {
		return WeeklyHabit{}, err
	}
	days, err := service.habits.ListPlannedDays(habitID)
	if err != nil {
		return WeeklyHabit{}, err
	}
	return service.weeklyView(habit, days, now, location), nil
}

// FetchTodayTasks lists habits planned for today's weekday, ordered by
// habit creation time.
func (service *ScheduleService) FetchTodayTasks(userID string, now time.Time, location *time.Location) ([]TodayTask, error) {
	today := WeekdayIndex(DateAtLocation(now, location))

	habits, err := service.habits.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	allDays, err := service.habits.ListPlannedDaysByUser(userID)
	if err != nil {
		return nil, err
	}

	todayByHabit := make(map[string]models.PlannedDay, len(habits))
	for _, day := range allDays {
		if day.Weekday == today {
			todayByHabit[day.HabitID] = day
		}
	}

	tasks := make([]TodayTask, 0, len(todayByHabit))
	for _, habit := range habits {
		day, planned := todayByHabit[habit.ID]
		if !planned {
			continue
		}
		tasks = append(tasks, TodayTask{
			HabitID:   habit.ID,
			Name:      habit.Name,
			Weekday:   today,
			Completed: day.Completed,
		})
	}
	return tasks, nil
}

func (service *ScheduleService) weeklyView(habit models.Habit, days []models.PlannedDay, now time.Time, location *time.Location) WeeklyHabit {
	created := DateAtLocation(habit.CreatedAt, location)
	views := make([]WeekdayView, 0, len(days))
	for _, day := range days {
		date := DateOfWeekday(now, day.Weekday, location)
		views = append(views, WeekdayView{
			Weekday:        day.Weekday,
			Date:           FormatDisplayDate(date),
			Completed:      day.Completed,
			BeforeCreation: date.Before(created),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Weekday < views[j].Weekday })

	return WeeklyHabit{
		ID:          habit.ID,
		Name:        habit.Name,
		Description: habit.Description,
		Days:        views,
	}
}

func newOccurrenceForDay(day models.PlannedDay, date time.Time, completed bool) models.Occurrence {
	habitID := day.HabitID
	plannedDayID := day.ID
	return models.Occurrence{
		ID:            uuid.NewString(),
		HabitID:       &habitID,
		PlannedDayID:  &plannedDayID,
		UserID:        day.UserID,
		ExecutionDate: date,
		Completed:     completed,
	}
}

func distinctSortedWeekdays(weekdays []int) []int {
	seen := make(map[int]struct{}, len(weekdays))
	distinct := make([]int, 0, len(weekdays))
	for _, weekday := range weekdays {
		if _, duplicate := seen[weekday]; duplicate {
			continue
		}
		seen[weekday] = struct{}{}
		distinct = append(distinct, weekday)
	}
	sort.Ints(distinct)
	return distinct
}
