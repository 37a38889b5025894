package api

import (
	"time"

	"github.com/okorintsev/habitweek/internal/db"
	"github.com/okorintsev/habitweek/internal/services"
	"gorm.io/gorm"
)

const (
	contextUserKey = "current_user"

	defaultAuthTokenTTL = 7 * 24 * time.Hour
)

type Handler struct {
	db        *gorm.DB
	secretKey []byte
	location  *time.Location

	repositories *db.Repositories
	userCache    *services.UserCache

	authService        *services.AuthService
	scheduleService    *services.ScheduleService
	materializeService *services.MaterializeService
	reconcileService   *services.ReconcileService
	completionService  *services.CompletionService
	metricsService     *services.MetricsService
}

func NewHandler(database *gorm.DB, secretKey string, location *time.Location) *Handler {
	if location == nil {
		location = time.UTC
	}

	handler := &Handler{
		db:        database,
		secretKey: []byte(secretKey),
		location:  location,
	}

	handler.repositories = db.NewRepositories(database)
	handler.userCache = services.NewUserCache(services.DefaultUserCacheTTL)
	handler.scheduleService = services.NewScheduleService(handler.repositories.Habits)
	handler.authService = services.NewAuthService(handler.repositories.Users, handler.scheduleService, handler.userCache)
	handler.materializeService = services.NewMaterializeService(handler.repositories.Occurrences, handler.repositories.Habits)
	handler.reconcileService = services.NewReconcileService(handler.repositories.Habits)
	handler.completionService = services.NewCompletionService(handler.repositories.Habits)
	handler.metricsService = services.NewMetricsService(handler.repositories.Occurrences, handler.materializeService)
	return handler
}
