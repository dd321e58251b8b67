// Package users resolves the identity a credit submission belongs to.
package users

import (
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping
	"strings" // Name and email handling
	"unicode" // Whitespace detection

	"credit_scoring/internal/domain" // Importing domain models

	"github.com/go-playground/validator/v10" // Email syntax check
	"github.com/sirupsen/logrus"             // Logging
	"gorm.io/gorm"                           // GORM ORM library
)

var (
	ErrEmailRequired = errors.New("user is required")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrUserNotFound  = errors.New("user not found")
	ErrConflict      = errors.New("user already exists")
)

var validate = validator.New()

// Outcome reports how Resolve obtained the user
type Outcome int

const (
	Existing Outcome = iota // Active user reused
	Created                 // New user inserted
	Restored                // Soft-deleted user brought back
)

// NormalizeEmail trims the address and lowercases its domain part
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// SplitName splits a display name on its first run of whitespace
func SplitName(displayName string) (first, last string) {
	name := strings.TrimSpace(displayName)
	idx := strings.IndexFunc(name, unicode.IsSpace)
	if idx < 0 {
		return name, ""
	}
	return name[:idx], strings.TrimSpace(name[idx:])
}

// CheckEmail normalises an address and verifies it is present and well formed
func CheckEmail(email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Lookup returns the active user with the given email
func Lookup(tx *gorm.DB, email string) (*domain.User, error) {
	email, err := CheckEmail(email)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

// Resolve returns the user with the given email, creating it from displayName
// when none exists. A soft-deleted user is restored rather than duplicated.
// Any outcome other than Existing changes the set of active users.
func Resolve(tx *gorm.DB, email, displayName string) (*domain.User, Outcome, error) {
	email, err := CheckEmail(email)
	if err != nil {
		return nil, Existing, err
	}

	var user domain.User
	err = tx.Unscoped().Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.DeletedAt.Valid {
			if err := tx.Unscoped().Model(&user).Update("deleted_at", nil).Error; err != nil {
				return nil, Existing, fmt.Errorf("restore user: %w", err)
			}
			user.DeletedAt = gorm.DeletedAt{}
			logrus.WithField("user_id", user.ID).Info("Restored soft-deleted user")
			return &user, Restored, nil
		}
		return &user, Existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, Existing, fmt.Errorf("lookup user: %w", err)
	}

	first, last := SplitName(displayName)
	user = domain.User{
		Email:       email,                   // Unique email
		FirstName:   first,                   // First word of the display name
		LastName:    last,                    // Remainder, possibly empty
		PhoneNumber: domain.PlaceholderPhone, // No phone is collected
	}
	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Existing, ErrConflict
		}
		return nil, Existing, fmt.Errorf("create user: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,    // New user ID
		"email":   user.Email, // New user email
	}).Info("Created user from credit submission")
	return &user, Created, nil
}
