package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Public user identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// PlaceholderPhone is assigned to users created implicitly from a credit submission
const PlaceholderPhone = "00000000000"

// User Model
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`                          // Primary key
	UUID        uuid.UUID      `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"` // Public identifier
	Email       string         `gorm:"size:254;uniqueIndex;not null" json:"email"`     // Unique email
	Title       *string        `gorm:"size:10" json:"title"`                           // Mr, Mrs, Ms, Dr, Prof, Other
	FirstName   string         `gorm:"size:50;not null" json:"first_name"`             // First name
	MiddleName  *string        `gorm:"size:50" json:"middle_name"`                     // Optional middle name
	LastName    string         `gorm:"size:50;not null" json:"last_name"`              // Last name, may be empty
	PhoneNumber string         `gorm:"size:11;not null" json:"phone_number"`           // Contact number
	CreatedAt   time.Time      `json:"created_at"`                                     // Creation time
	UpdatedAt   time.Time      `json:"updated_at"`                                     // Last update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                 // Soft delete marker
}

// BeforeCreate assigns a UUID when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}
