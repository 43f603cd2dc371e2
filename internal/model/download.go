package model

import (
	"time"

	"gorm.io/gorm"
)

// Download records one questionnaire file download for audit.
type Download struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	QuestionnaireID uint           `json:"questionnaire_id" gorm:"not null;index"`
	TeacherID       *uint          `json:"teacher_id,omitempty" gorm:"index"`
	IPAddress       string         `json:"ip_address,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
