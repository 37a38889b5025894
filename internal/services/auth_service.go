package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okorintsev/habitweek/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

// Planned days of the starter habit created for every new user.
var starterHabitWeekdays = []int{0, 1, 2, 3, 4, 5, 6}

type AuthUserRepository interface {
	FindBySubject(subject string) (models.User, bool, error)
	FindByNormalizedEmail(email string) (models.User, bool, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	Create(user *models.User) error
}

type starterHabitCreator interface {
	CreateHabit(userID string, name string, description string, weekdays []int, now time.Time, location *time.Location) (WeeklyHabit, error)
}

// AuthService resolves token subjects to internal users, creating the
// user (plus a starter habit) the first time a subject is seen. Lookups
// go through the TTL cache so the store is hit at most once per subject
// per cache window.
type AuthService struct {
	users    AuthUserRepository
	schedule starterHabitCreator
	cache    *UserCache
}

func NewAuthService(users AuthUserRepository, schedule starterHabitCreator, cache *UserCache) *AuthService {
	return &AuthService{
		users:    users,
		schedule: schedule,
		cache:    cache,
	}
}

func (service *AuthService) ResolveSubject(subject string, now time.Time, location *time.Location) (models.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return models.User{}, fmt.Errorf("%w: empty subject", ErrValidation)
	}

	return service.cache.GetOrResolve(subject, func() (models.User, error) {
		user, found, err := service.users.FindBySubject(subject)
		if err != nil {
			return models.User{}, err
		}
		if found {
			return user, nil
		}
		return service.createUserForSubject(subject, "", "", now, location)
	})
}

// Register creates a local account and its user row; the generated
// subject takes the place of an identity provider's.
func (service *AuthService) Register(email string, password string, now time.Time, location *time.Location) (models.User, error) {
	email = NormalizeAuthEmail(email)
	if email == "" {
		return models.User{}, fmt.Errorf("%w: email must be a valid address", ErrValidation)
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	taken, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	subject := "local|" + uuid.NewString()
	user, err := service.createUserForSubject(subject, email, string(hash), now, location)
	if err != nil {
		return models.User{}, err
	}
	service.cache.Put(subject, user)
	return user, nil
}

func (service *AuthService) Authenticate(email string, password string) (models.User, error) {
	email = NormalizeAuthEmail(email)
	if email == "" {
		return models.User{}, ErrInvalidCredentials
	}
	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if !found || user.PasswordHash == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) createUserForSubject(subject string, email string, passwordHash string, now time.Time, location *time.Location) (models.User, error) {
	user := models.User{
		ID:           uuid.NewString(),
		Subject:      subject,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}

	if _, err := service.schedule.CreateHabit(
		user.ID,
		"My first habit",
		"This is my first habit",
		starterHabitWeekdays,
		now,
		location,
	); err != nil {
		return models.User{}, err
	}

	return user, nil
}
