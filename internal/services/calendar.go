package services

import (
	"time"

	"github.com/okorintsev/habitweek/internal/models"
)

// Weekday indexes follow the plan convention: 0 = Monday .. 6 = Sunday.
// The current week is the Monday..Sunday window containing now, recomputed
// per call; nothing about week boundaries is persisted.

func WeekdayIndex(value time.Time) int {
	return (int(value.Weekday()) + 6) % 7
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DateOfWeekday returns the concrete date the given weekday falls on in
// the week containing now.
func DateOfWeekday(now time.Time, weekday int, location *time.Location) time.Time {
	today := DateAtLocation(now, location)
	return today.AddDate(0, 0, weekday-WeekdayIndex(today))
}

// WeekRange returns the Monday and Sunday dates of the week containing now.
func WeekRange(now time.Time, location *time.Location) (time.Time, time.Time) {
	return DateOfWeekday(now, models.WeekdayMin, location), DateOfWeekday(now, models.WeekdayMax, location)
}

// FormatDisplayDate renders a date as dd/mm/yyyy for display only; dates
// cross the API boundary as ISO yyyy-mm-dd.
func FormatDisplayDate(value time.Time) string {
	return value.Format("02/01/2006")
}

func ParseISODate(value string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	return time.ParseInLocation("2006-01-02", value, location)
}
