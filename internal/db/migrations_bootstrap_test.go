package db

import (
	"reflect"
	"testing"
	"time"

	"github.com/okorintsev/habitweek/internal/models"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrations(t *testing.T) {
	database := openTestDatabase(t)

	for _, table := range []string{"users", "habits", "planned_days", "occurrences", "schema_migrations"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist after bootstrap", table)
		}
	}

	expectedVersions := embeddedMigrationVersionsForTest(t)
	actualVersions := appliedVersionsForTest(t, database)
	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migrations: expected=%v actual=%v", expectedVersions, actualVersions)
	}

	// A reopened database must not reapply anything.
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	path := databasePathForTest(t, database)
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close sql db: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	reopenedSQLDB, err := reopened.DB()
	if err != nil {
		t.Fatalf("open reopened sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = reopenedSQLDB.Close()
	})

	if !reflect.DeepEqual(expectedVersions, appliedVersionsForTest(t, reopened)) {
		t.Fatal("migration bootstrap is not idempotent across reopens")
	}
}

func TestUniqueIndexesRejectDuplicates(t *testing.T) {
	database := openTestDatabase(t)
	user := seedUser(t, database, "u1")

	duplicateSubject := models.User{ID: "u2", Subject: user.Subject, CreatedAt: time.Now().UTC()}
	if err := database.Create(&duplicateSubject).Error; err == nil {
		t.Fatal("expected duplicate subject insert to fail")
	}

	habit := models.Habit{ID: "h1", UserID: user.ID, Name: "Read", CreatedAt: time.Now().UTC()}
	day := models.PlannedDay{ID: "d1", HabitID: habit.ID, UserID: user.ID, Weekday: 2}
	if err := NewHabitRepository(database).CreateWithPlan(&habit, []models.PlannedDay{day}, nil); err != nil {
		t.Fatalf("CreateWithPlan returned error: %v", err)
	}

	duplicateDay := models.PlannedDay{ID: "d2", HabitID: habit.ID, UserID: user.ID, Weekday: 2}
	if err := database.Create(&duplicateDay).Error; err == nil {
		t.Fatal("expected duplicate (habit, weekday) insert to fail")
	}

	date := testDate(t, "2026-09-02")
	first := models.Occurrence{ID: "o1", HabitID: strPtr(habit.ID), PlannedDayID: strPtr(day.ID), UserID: user.ID, ExecutionDate: date}
	if err := database.Create(&first).Error; err != nil {
		t.Fatalf("create occurrence: %v", err)
	}
	second := models.Occurrence{ID: "o2", HabitID: strPtr(habit.ID), PlannedDayID: strPtr(day.ID), UserID: user.ID, ExecutionDate: date}
	if err := database.Create(&second).Error; err == nil {
		t.Fatal("expected duplicate (planned day, date) insert to fail")
	}
}

func embeddedMigrationVersionsForTest(t *testing.T) []string {
	t.Helper()

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}

	versions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		versions = append(versions, migration.Version)
	}
	return versions
}

func appliedVersionsForTest(t *testing.T, database *gorm.DB) []string {
	t.Helper()

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}

	versions := make([]string, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, row.Version)
	}
	return versions
}

func databasePathForTest(t *testing.T, database *gorm.DB) string {
	t.Helper()

	var row struct {
		File string `gorm:"column:file"`
	}
	if err := database.Raw(`SELECT file FROM pragma_database_list WHERE name = 'main'`).Scan(&row).Error; err != nil {
		t.Fatalf("load database path: %v", err)
	}
	if row.File == "" {
		t.Fatal("expected a file-backed database")
	}
	return row.File
}
