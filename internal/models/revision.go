package models

import "time"

// PlanRevision is the full set of row changes one habit edit resolves to.
// The reconciler computes it, the store applies it in one transaction.
type PlanRevision struct {
	HabitID     string
	Name        string
	Description string

	// Weekdays removed from the plan; their PlannedDay rows are deleted.
	DropWeekdays []int
	// Current-week dates of dropped weekdays whose occurrences may be
	// deleted (not strictly past). Completed occurrences are kept even
	// when their date is listed here.
	DropOccurrenceDates []time.Time

	NewDays        []PlannedDay
	NewOccurrences []Occurrence

	// Completion flag per retained weekday.
	RetainedCompletion map[int]bool
}
