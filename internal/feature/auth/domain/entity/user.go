// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the unique login name. Entries carry a denormalized
	// copy of it.
	Username string `gorm:"uniqueIndex;size:64;not null"`

	// Email is the user's email address. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Plaintext passwords are never stored.
	PasswordHash string `gorm:"size:255;not null"`

	// FullName is the optional display name.
	FullName string `gorm:"size:255"`

	// IsActive marks whether the account may log in. Deactivated users
	// keep their entries.
	IsActive bool `gorm:"not null;default:true"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// LastLogin is the timestamp of the most recent successful login.
	LastLogin *time.Time
}
