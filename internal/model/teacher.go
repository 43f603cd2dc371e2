package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Teacher struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	FirstName string         `json:"first_name" gorm:"not null"`
	LastName  string         `json:"last_name" gorm:"not null"`
	Email     string         `json:"email" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName returns "First Last", falling back to the email local part
// when both name fields are blank.
func (t Teacher) FullName() string {
	name := strings.TrimSpace(t.FirstName + " " + t.LastName)
	if name != "" {
		return name
	}
	if at := strings.Index(t.Email, "@"); at > 0 {
		return t.Email[:at]
	}
	return t.Email
}
