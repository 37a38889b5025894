package models

import "time"

// User is the internal account a token subject resolves to. Subject is the
// stable identifier issued by the identity provider; it is unique per user
// and is the only thing the auth layer knows about.
type User struct {
	ID           string    `gorm:"primaryKey"`
	Subject      string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"not null;default:''"`
	PasswordHash string    `gorm:"not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
}
