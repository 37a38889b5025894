package db

import (
	"time"

	"github.com/okorintsev/habitweek/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func (repo *HabitRepository) FindByID(habitID string) (models.Habit, bool, error) {
	var habit models.Habit
	result := repo.database.Where("id = ?", habitID).Limit(1).Find(&habit)
	if result.Error != nil {
		return models.Habit{}, false, result.Error
	}
	return habit, result.RowsAffected > 0, nil
}

func (repo *HabitRepository) ListByUser(userID string) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (repo *HabitRepository) ListPlannedDays(habitID string) ([]models.PlannedDay, error) {
	days := make([]models.PlannedDay, 0)
	if err := repo.database.
		Where("habit_id = ?", habitID).
		Order("weekday ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (repo *HabitRepository) ListPlannedDaysByUser(userID string) ([]models.PlannedDay, error) {
	days := make([]models.PlannedDay, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("habit_id ASC, weekday ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (repo *HabitRepository) FindPlannedDay(habitID string, weekday int) (models.PlannedDay, bool, error) {
	var day models.PlannedDay
	result := repo.database.
		Where("habit_id = ? AND weekday = ?", habitID, weekday).
		Limit(1).
		Find(&day)
	if result.Error != nil {
		return models.PlannedDay{}, false, result.Error
	}
	return day, result.RowsAffected > 0, nil
}

// CreateWithPlan inserts a habit, its planned days and their current-week
// occurrences as one unit. A habit without its planned days must never be
// observable.
func (repo *HabitRepository) CreateWithPlan(habit *models.Habit, days []models.PlannedDay, occurrences []models.Occurrence) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(habit).Error; err != nil {
			return err
		}
		if len(days) > 0 {
			if err := tx.Create(&days).Error; err != nil {
				return err
			}
		}
		if len(occurrences) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "planned_day_id"}, {Name: "execution_date"}},
				DoNothing: true,
			}).Create(&occurrences).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyRevision applies one habit edit atomically: drops removed weekdays
// and their still-deletable occurrences, detaches surviving occurrences
// from deleted planned days, inserts added weekdays, refreshes retained
// completion flags, and renames the habit.
func (repo *HabitRepository) ApplyRevision(revision models.PlanRevision) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if len(revision.DropWeekdays) > 0 {
			if len(revision.DropOccurrenceDates) > 0 {
				if err := tx.
					Where("habit_id = ? AND execution_date IN ? AND completed = ?",
						revision.HabitID, revision.DropOccurrenceDates, false).
					Delete(&models.Occurrence{}).Error; err != nil {
					return err
				}
			}

			droppedDayIDs := make([]string, 0, len(revision.DropWeekdays))
			if err := tx.Model(&models.PlannedDay{}).
				Where("habit_id = ? AND weekday IN ?", revision.HabitID, revision.DropWeekdays).
				Pluck("id", &droppedDayIDs).Error; err != nil {
				return err
			}

			if len(droppedDayIDs) > 0 {
				// Completed and past occurrences survive; their planned-day
				// reference is nulled so the parent row can go.
				if err := tx.Model(&models.Occurrence{}).
					Where("planned_day_id IN ?", droppedDayIDs).
					Update("planned_day_id", nil).Error; err != nil {
					return err
				}
				if err := tx.
					Where("id IN ?", droppedDayIDs).
					Delete(&models.PlannedDay{}).Error; err != nil {
					return err
				}
			}
		}

		if len(revision.NewDays) > 0 {
			if err := tx.Create(&revision.NewDays).Error; err != nil {
				return err
			}
		}
		if len(revision.NewOccurrences) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "planned_day_id"}, {Name: "execution_date"}},
				DoNothing: true,
			}).Create(&revision.NewOccurrences).Error; err != nil {
				return err
			}
		}

		for weekday, completed := range revision.RetainedCompletion {
			if err := tx.Model(&models.PlannedDay{}).
				Where("habit_id = ? AND weekday = ?", revision.HabitID, weekday).
				Update("completed", completed).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Habit{}).
			Where("id = ?", revision.HabitID).
			Updates(map[string]any{
				"name":        revision.Name,
				"description": revision.Description,
			}).Error
	})
}

// DeleteWithPlan removes a habit and its whole plan. Occurrences on the
// given dates are deleted unless completed; everything else keeps its row
// with habit and planned-day references nulled.
func (repo *HabitRepository) DeleteWithPlan(habitID string, deletableDates []time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if len(deletableDates) > 0 {
			if err := tx.
				Where("habit_id = ? AND execution_date IN ? AND completed = ?",
					habitID, deletableDates, false).
				Delete(&models.Occurrence{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Occurrence{}).
			Where("habit_id = ?", habitID).
			Updates(map[string]any{"habit_id": nil, "planned_day_id": nil}).Error; err != nil {
			return err
		}

		if err := tx.
			Where("habit_id = ?", habitID).
			Delete(&models.PlannedDay{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", habitID).Delete(&models.Habit{}).Error
	})
}

// ApplyDayCompletion persists a completion toggle: the planned day's flag
// plus its current-week occurrence, creating the occurrence from fallback
// when the week has not been materialized yet.
func (repo *HabitRepository) ApplyDayCompletion(day models.PlannedDay, fallback models.Occurrence) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PlannedDay{}).
			Where("id = ?", day.ID).
			Update("completed", day.Completed).Error; err != nil {
			return err
		}

		var occurrence models.Occurrence
		result := tx.
			Where("planned_day_id = ? AND execution_date = ?", day.ID, fallback.ExecutionDate).
			Limit(1).
			Find(&occurrence)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return tx.Model(&occurrence).Update("completed", fallback.Completed).Error
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "planned_day_id"}, {Name: "execution_date"}},
			DoNothing: true,
		}).Create(&fallback).Error
	})
}
