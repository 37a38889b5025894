package services

import (
	"time"

	"github.com/okorintsev/habitweek/internal/models"
)

type MaterializeOccurrenceRepository interface {
	ListByUserDateRange(userID string, start time.Time, end time.Time) ([]models.Occurrence, error)
	InsertIgnoreDuplicates(occurrences []models.Occurrence) error
}

type MaterializePlanRepository interface {
	ListPlannedDaysByUser(userID string) ([]models.PlannedDay, error)
}

// MaterializeService projects the weekday plan onto the current week:
// after EnsureCurrentWeek every planned day has exactly one occurrence
// dated at its weekday's date.
type MaterializeService struct {
	occurrences MaterializeOccurrenceRepository
	plans       MaterializePlanRepository
}

func NewMaterializeService(occurrences MaterializeOccurrenceRepository, plans MaterializePlanRepository) *MaterializeService {
	return &MaterializeService{
		occurrences: occurrences,
		plans:       plans,
	}
}

// EnsureCurrentWeek materializes missing occurrences for the week
// containing now. Each planned day is handled individually and inserts
// ignore duplicate (planned day, date) rows, so repeated and concurrent
// calls converge on the same occurrence set instead of racing an
// all-or-nothing "is this week seeded" check.
func (service *MaterializeService) EnsureCurrentWeek(userID string, now time.Time, location *time.Location) error {
	weekStart, weekEnd := WeekRange(now, location)

	existing, err := service.occurrences.ListByUserDateRange(userID, weekStart, weekEnd)
	if err != nil {
		return err
	}
	materialized := make(map[string]struct{}, len(existing))
	for _, occurrence := range existing {
		if occurrence.PlannedDayID != nil {
			materialized[*occurrence.PlannedDayID] = struct{}{}
		}
	}

	plannedDays, err := service.plans.ListPlannedDaysByUser(userID)
	if err != nil {
		return err
	}

	missing := make([]models.Occurrence, 0, len(plannedDays))
	for _, day := range plannedDays {
		if _, seeded := materialized[day.ID]; seeded {
			continue
		}
		date := DateOfWeekday(now, day.Weekday, location)
		missing = append(missing, newOccurrenceForDay(day, date, day.Completed))
	}

	return service.occurrences.InsertIgnoreDuplicates(missing)
}
