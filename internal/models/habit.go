package models

import "time"

// Weekday indexes run 0..6 with 0 = Monday, everywhere in the system.
const (
	WeekdayMin = 0
	WeekdayMax = 6
)

// Habit is the named recurring activity. Its weekday plan lives in
// PlannedDay rows; Habit itself only carries identity and display fields.
type Habit struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	CreatedAt   time.Time
}

// PlannedDay is one (habit, weekday) pair of the recurrence template. The
// completed flag reflects the current week only; history lives in
// Occurrence rows. A habit has at most one PlannedDay per weekday.
type PlannedDay struct {
	ID        string `gorm:"primaryKey"`
	HabitID   string `gorm:"not null;uniqueIndex:uidx_habit_weekday"`
	UserID    string `gorm:"not null;index"`
	Weekday   int    `gorm:"not null;uniqueIndex:uidx_habit_weekday"`
	Completed bool   `gorm:"not null;default:false"`
}

func ValidWeekday(weekday int) bool {
	return weekday >= WeekdayMin && weekday <= WeekdayMax
}
