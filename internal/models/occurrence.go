package models

import "time"

// Occurrence is one dated, materialized instance of a planned day and the
// durable completion ledger entry. HabitID and PlannedDayID are nulled by
// the store when their parent rows are deleted, so completed history
// survives plan edits and habit deletion.
//
// The unique index on (planned_day_id, execution_date) is what makes
// materialization idempotent: a planned day maps to exactly one date per
// week, so at most one row per planned day and week can exist, and
// concurrent materializers insert with conflict-ignore.
type Occurrence struct {
	ID            string    `gorm:"primaryKey"`
	HabitID       *string   `gorm:"index"`
	PlannedDayID  *string   `gorm:"uniqueIndex:uidx_planned_day_date"`
	UserID        string    `gorm:"not null;index"`
	ExecutionDate time.Time `gorm:"type:date;not null;uniqueIndex:uidx_planned_day_date"`
	Completed     bool      `gorm:"not null;default:false"`
}
