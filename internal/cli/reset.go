package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/okorintsev/habitweek/internal/db"
	"github.com/okorintsev/habitweek/internal/security"
	"github.com/okorintsev/habitweek/internal/services"
	"golang.org/x/crypto/bcrypt"
)

// RunResetPasswordCommand replaces the password of the account registered
// under email. With a terminal attached the new password is read without
// echo; otherwise, or on empty input, a temporary password is generated
// and printed once.
func RunResetPasswordCommand(dbPath string, email string) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errors.New("a valid email address is required")
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	users := db.NewUserRepository(database)
	user, found, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !found {
		return fmt.Errorf("user %s not found", normalizedEmail)
	}

	password, prompted := promptNewPassword(os.Stdin)
	temporary := password == ""
	if temporary {
		password, err = generateTemporaryPassword(12)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
	} else if err := services.ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("password rejected: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePasswordHash(user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Printf("Password reset for %s\n", normalizedEmail)
	if temporary {
		fmt.Printf("Temporary password: %s\n", password)
		if prompted {
			fmt.Println("No password entered; share the temporary one and ask the user to change it.")
		}
	}
	return nil
}

// promptNewPassword reads a password from the terminal with echo disabled.
// The second return reports whether a prompt was shown at all.
func promptNewPassword(stdin *os.File) (string, bool) {
	if stdin == nil {
		return "", false
	}
	stat, err := stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice == 0 {
		return "", false
	}

	fmt.Print("New password (leave empty to generate a temporary one): ")
	line, err := readPasswordNoEcho(stdin)
	fmt.Println()
	if err != nil {
		return "", true
	}
	return strings.TrimSpace(string(line)), true
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	return security.RandomString(length, alphabet)
}
