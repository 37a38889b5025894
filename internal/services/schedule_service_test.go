package services

import (
	"errors"
	"testing"
	"time"

	"github.com/okorintsev/habitweek/internal/models"
)

type stubScheduleRepository struct {
	habits      []models.Habit
	plannedDays []models.PlannedDay

	createdHabit       *models.Habit
	createdDays        []models.PlannedDay
	createdOccurrences []models.Occurrence
	createErr          error
}

func (stub *stubScheduleRepository) FindByID(habitID string) (models.Habit, bool, error) {
	for _, habit := range stub.habits {
		if habit.ID == habitID {
			return habit, true, nil
		}
	}
	return models.Habit{}, false, nil
}

func (stub *stubScheduleRepository) ListByUser(userID string) ([]models.Habit, error) {
	matched := make([]models.Habit, 0)
	for _, habit := range stub.habits {
		if habit.UserID == userID {
			matched = append(matched, habit)
		}
	}
	return matched, nil
}

func (stub *stubScheduleRepository) ListPlannedDays(habitID string) ([]models.PlannedDay, error) {
	matched := make([]models.PlannedDay, 0)
	for _, day := range stub.plannedDays {
		if day.HabitID == habitID {
			matched = append(matched, day)
		}
	}
	return matched, nil
}

func (stub *stubScheduleRepository) ListPlannedDaysByUser(userID string) ([]models.PlannedDay, error) {
	matched := make([]models.PlannedDay, 0)
	for _, day := range stub.plannedDays {
		if day.UserID == userID {
			matched = append(matched, day)
		}
	}
	return matched, nil
}

func (stub *stubScheduleRepository) CreateWithPlan(habit *models.Habit, days []models.PlannedDay, occurrences []models.Occurrence) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	stub.createdHabit = habit
	stub.createdDays = days
	stub.createdOccurrences = occurrences
	return nil
}

func TestCreateHabitValidation(t *testing.T) {
	service := NewScheduleService(&stubScheduleRepository{})
	now := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		habit    string
		weekdays []int
	}{
		{name: "empty name", habit: "   ", weekdays: []int{0}},
		{name: "weekday below range", habit: "Run", weekdays: []int{-1}},
		{name: "weekday above range", habit: "Run", weekdays: []int{7}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.CreateHabit("user-1", testCase.habit, "", testCase.weekdays, now, time.UTC)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateHabitPlansDistinctWeekdaysWithOccurrences(t *testing.T) {
	repo := &stubScheduleRepository{}
	service := NewScheduleService(repo)
	// Monday: every weekday of the plan is today or later.
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	habit, err := service.CreateHabit("user-1", "Stretch", "morning routine", []int{4, 0, 2, 2}, now, time.UTC)
	if err != nil {
		t.Fatalf("CreateHabit returned error: %v", err)
	}

	if len(repo.createdDays) != 3 {
		t.Fatalf("expected 3 planned days, got %d", len(repo.createdDays))
	}
	for index, wantWeekday := range []int{0, 2, 4} {
		if repo.createdDays[index].Weekday != wantWeekday {
			t.Fatalf("planned day %d has weekday %d, want %d", index, repo.createdDays[index].Weekday, wantWeekday)
		}
	}

	if len(repo.createdOccurrences) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(repo.createdOccurrences))
	}
	wantDates := []string{"2026-08-31", "2026-09-02", "2026-09-04"}
	for index, occurrence := range repo.createdOccurrences {
		if got := occurrence.ExecutionDate.Format("2006-01-02"); got != wantDates[index] {
			t.Fatalf("occurrence %d dated %s, want %s", index, got, wantDates[index])
		}
		if occurrence.Completed {
			t.Fatalf("occurrence %d created completed", index)
		}
		if occurrence.PlannedDayID == nil || *occurrence.PlannedDayID != repo.createdDays[index].ID {
			t.Fatalf("occurrence %d not linked to its planned day", index)
		}
	}

	if len(habit.Days) != 3 {
		t.Fatalf("expected 3 weekly view days, got %d", len(habit.Days))
	}
	if habit.Days[0].Date != "31/08/2026" {
		t.Fatalf("weekly view date = %q, want 31/08/2026", habit.Days[0].Date)
	}
}

func TestCreateHabitSkipsOccurrencesForPassedWeekdays(t *testing.T) {
	repo := &stubScheduleRepository{}
	service := NewScheduleService(repo)
	// Friday: Monday and Wednesday have already passed this week.
	now := time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC)

	if _, err := service.CreateHabit("user-1", "Read", "", []int{0, 2, 4, 6}, now, time.UTC); err != nil {
		t.Fatalf("CreateHabit returned error: %v", err)
	}

	if len(repo.createdDays) != 4 {
		t.Fatalf("expected 4 planned days, got %d", len(repo.createdDays))
	}
	if len(repo.createdOccurrences) != 2 {
		t.Fatalf("expected occurrences only for Friday and Sunday, got %d", len(repo.createdOccurrences))
	}
	if got := repo.createdOccurrences[0].ExecutionDate.Format("2006-01-02"); got != "2026-09-04" {
		t.Fatalf("first occurrence dated %s, want 2026-09-04", got)
	}
	if got := repo.createdOccurrences[1].ExecutionDate.Format("2006-01-02"); got != "2026-09-06" {
		t.Fatalf("second occurrence dated %s, want 2026-09-06", got)
	}
}

func TestCreateHabitPermitsEmptyWeekdaySet(t *testing.T) {
	repo := &stubScheduleRepository{}
	service := NewScheduleService(repo)
	now := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	habit, err := service.CreateHabit("user-1", "Someday", "", nil, now, time.UTC)
	if err != nil {
		t.Fatalf("CreateHabit returned error: %v", err)
	}
	if len(repo.createdDays) != 0 || len(repo.createdOccurrences) != 0 {
		t.Fatalf("expected no rows beyond the habit, got %d days %d occurrences",
			len(repo.createdDays), len(repo.createdOccurrences))
	}
	if len(habit.Days) != 0 {
		t.Fatalf("expected empty weekly view, got %d days", len(habit.Days))
	}
}

func TestFindHabitNotFound(t *testing.T) {
	service := NewScheduleService(&stubScheduleRepository{})
	if _, err := service.FindHabit("missing"); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestFetchWeeklyHabitsMarksDaysBeforeCreation(t *testing.T) {
	created := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC) // Wednesday
	repo := &stubScheduleRepository{
		habits: []models.Habit{{ID: "h1", UserID: "user-1", Name: "Swim", CreatedAt: created}},
		plannedDays: []models.PlannedDay{
			{ID: "d0", HabitID: "h1", UserID: "user-1", Weekday: 0},
			{ID: "d5", HabitID: "h1", UserID: "user-1", Weekday: 5, Completed: true},
		},
	}
	service := NewScheduleService(repo)
	now := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)

	weekly, err := service.FetchWeeklyHabits("user-1", now, time.UTC)
	if err != nil {
		t.Fatalf("FetchWeeklyHabits returned error: %v", err)
	}
	if len(weekly) != 1 || len(weekly[0].Days) != 2 {
		t.Fatalf("unexpected weekly shape: %#v", weekly)
	}

	monday := weekly[0].Days[0]
	if !monday.BeforeCreation {
		t.Fatal("Monday precedes the habit's creation and should be flagged")
	}
	saturday := weekly[0].Days[1]
	if saturday.BeforeCreation {
		t.Fatal("Saturday follows the habit's creation and should not be flagged")
	}
	if !saturday.Completed {
		t.Fatal("expected Saturday to carry its completed flag")
	}
}

func TestFetchTodayTasks(t *testing.T) {
	repo := &stubScheduleRepository{
		habits: []models.Habit{
			{ID: "h1", UserID: "user-1", Name: "Swim", CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "h2", UserID: "user-1", Name: "Read", CreatedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
		},
		plannedDays: []models.PlannedDay{
			{ID: "d1", HabitID: "h1", UserID: "user-1", Weekday: 2, Completed: true},
			{ID: "d2", HabitID: "h2", UserID: "user-1", Weekday: 3},
		},
	}
	service := NewScheduleService(repo)
	now := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC) // Wednesday, weekday 2

	tasks, err := service.FetchTodayTasks("user-1", now, time.UTC)
	if err != nil {
		t.Fatalf("FetchTodayTasks returned error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected one task for Wednesday, got %d", len(tasks))
	}
	if tasks[0].HabitID != "h1" || !tasks[0].Completed || tasks[0].Weekday != 2 {
		t.Fatalf("unexpected task: %#v", tasks[0])
	}
}
