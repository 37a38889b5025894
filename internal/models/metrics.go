package models

import "time"

// DailyCompletionCount is one per-date aggregation row over occurrences.
type DailyCompletionCount struct {
	ExecutionDate  time.Time `gorm:"column:execution_date"`
	CompletedCount int       `gorm:"column:completed_count"`
	TotalCount     int       `gorm:"column:total_count"`
}

// HabitCompletionCount is one per-habit aggregation row over occurrences.
// Occurrences whose habit reference was nulled by a delete carry no name
// and are excluded from this grouping.
type HabitCompletionCount struct {
	HabitName      string `gorm:"column:habit_name"`
	CompletedCount int    `gorm:"column:completed_count"`
	TotalCount     int    `gorm:"column:total_count"`
}
