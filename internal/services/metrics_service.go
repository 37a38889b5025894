package services

import (
	"fmt"
	"time"

	"github.com/okorintsev/habitweek/internal/models"
	"github.com/shopspring/decimal"
)

// Completion metrics default to the trailing three months ending today.
const defaultMetricsMonths = 3

type MetricsOccurrenceRepository interface {
	DailyTotals(userID string, start time.Time, end time.Time) ([]models.DailyCompletionCount, error)
	HabitTotals(userID string, start time.Time, end time.Time) ([]models.HabitCompletionCount, error)
}

type WeekMaterializer interface {
	EnsureCurrentWeek(userID string, now time.Time, location *time.Location) error
}

type DailyMetric struct {
	Date           string          `json:"date"`
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
	CompletionRate decimal.Decimal `json:"completionRate"`
}

type HabitStat struct {
	HabitName      string          `json:"habitName"`
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
	CompletionRate decimal.Decimal `json:"completionRate"`
}

type MetricsService struct {
	occurrences  MetricsOccurrenceRepository
	materializer WeekMaterializer
}

func NewMetricsService(occurrences MetricsOccurrenceRepository, materializer WeekMaterializer) *MetricsService {
	return &MetricsService{
		occurrences:  occurrences,
		materializer: materializer,
	}
}

// DailyMetrics groups occurrences by date over [startDate, endDate]. The
// current week is materialized first so the ongoing week shows up even
// before any completion happened.
func (service *MetricsService) DailyMetrics(userID string, startDate time.Time, endDate time.Time, now time.Time, location *time.Location) ([]DailyMetric, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	if err := service.materializer.EnsureCurrentWeek(userID, now, location); err != nil {
		return nil, err
	}

	rows, err := service.occurrences.DailyTotals(userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	metrics := make([]DailyMetric, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, DailyMetric{
			Date:           row.ExecutionDate.Format("2006-01-02"),
			CompletedCount: row.CompletedCount,
			TotalCount:     row.TotalCount,
			CompletionRate: completionRate(row.CompletedCount, row.TotalCount),
		})
	}
	return metrics, nil
}

// DefaultMetricsRange is the window DailyMetrics is queried with when the
// caller names none.
func DefaultMetricsRange(now time.Time, location *time.Location) (time.Time, time.Time) {
	today := DateAtLocation(now, location)
	return today.AddDate(0, -defaultMetricsMonths, 0), today
}

// HabitStats groups occurrences by habit over [startDate, endDate].
func (service *MetricsService) HabitStats(userID string, startDate time.Time, endDate time.Time) ([]HabitStat, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrValidation)
	}

	rows, err := service.occurrences.HabitTotals(userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	stats := make([]HabitStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, HabitStat{
			HabitName:      row.HabitName,
			CompletedCount: row.CompletedCount,
			TotalCount:     row.TotalCount,
			CompletionRate: completionRate(row.CompletedCount, row.TotalCount),
		})
	}
	return stats, nil
}

func completionRate(completed int, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(completed)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
