package db

import (
	"time"

	"github.com/okorintsev/habitweek/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OccurrenceRepository struct {
	database *gorm.DB
}

func NewOccurrenceRepository(database *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{database: database}
}

// ListByUserDateRange returns occurrences with start <= execution_date <= end.
func (repo *OccurrenceRepository) ListByUserDateRange(userID string, start time.Time, end time.Time) ([]models.Occurrence, error) {
	occurrences := make([]models.Occurrence, 0)
	if err := repo.database.
		Where("user_id = ? AND execution_date >= ? AND execution_date <= ?", userID, start, end).
		Order("execution_date ASC, id ASC").
		Find(&occurrences).Error; err != nil {
		return nil, err
	}
	return occurrences, nil
}

// InsertIgnoreDuplicates inserts occurrence rows, silently skipping any
// that collide on (planned_day_id, execution_date). Concurrent
// materializers for the same week all converge on one row per planned day.
func (repo *OccurrenceRepository) InsertIgnoreDuplicates(occurrences []models.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "planned_day_id"}, {Name: "execution_date"}},
		DoNothing: true,
	}).Create(&occurrences).Error
}

func (repo *OccurrenceRepository) FindByPlannedDayAndDate(plannedDayID string, date time.Time) (models.Occurrence, bool, error) {
	var occurrence models.Occurrence
	result := repo.database.
		Where("planned_day_id = ? AND execution_date = ?", plannedDayID, date).
		Limit(1).
		Find(&occurrence)
	if result.Error != nil {
		return models.Occurrence{}, false, result.Error
	}
	return occurrence, result.RowsAffected > 0, nil
}

func (repo *OccurrenceRepository) DailyTotals(userID string, start time.Time, end time.Time) ([]models.DailyCompletionCount, error) {
	rows := make([]models.DailyCompletionCount, 0)
	if err := repo.database.Raw(`
SELECT execution_date,
       SUM(CASE WHEN completed THEN 1 ELSE 0 END) AS completed_count,
       COUNT(*) AS total_count
FROM occurrences
WHERE user_id = ? AND execution_date >= ? AND execution_date <= ?
GROUP BY execution_date
ORDER BY execution_date`, userID, start, end).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *OccurrenceRepository) HabitTotals(userID string, start time.Time, end time.Time) ([]models.HabitCompletionCount, error) {
	rows := make([]models.HabitCompletionCount, 0)
	if err := repo.database.Raw(`
SELECT habits.name AS habit_name,
       SUM(CASE WHEN occurrences.completed THEN 1 ELSE 0 END) AS completed_count,
       COUNT(*) AS total_count
FROM occurrences
INNER JOIN habits ON habits.id = occurrences.habit_id
WHERE occurrences.user_id = ? AND occurrences.execution_date >= ? AND occurrences.execution_date <= ?
GROUP BY habits.id, habits.name
ORDER BY habits.name`, userID, start, end).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
