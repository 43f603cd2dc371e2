package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ExtractionStatus is the lifecycle state of the AI extraction job attached
// to an uploaded questionnaire.
type ExtractionStatus string

const (
	StatusPending    ExtractionStatus = "pending"
	StatusProcessing ExtractionStatus = "processing"
	StatusCompleted  ExtractionStatus = "completed"
	StatusFailed     ExtractionStatus = "failed"
)

func (s ExtractionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether moving to next is a legal state change.
// pending -> processing -> {completed, failed}; failed -> processing on retry.
func (s ExtractionStatus) CanTransition(next ExtractionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusFailed:
		return next == StatusProcessing
	}
	return false
}

// Transition returns the next status or an error for an illegal change.
func (s ExtractionStatus) Transition(next ExtractionStatus) (ExtractionStatus, error) {
	if !next.Valid() {
		return s, fmt.Errorf("unknown extraction status %q", next)
	}
	if !s.CanTransition(next) {
		return s, fmt.Errorf("illegal extraction status transition %s -> %s", s, next)
	}
	return next, nil
}

// AllowedFileTypes are the upload formats accepted at the boundary.
var AllowedFileTypes = map[string]bool{
	"pdf":  true,
	"docx": true,
	"doc":  true,
	"xlsx": true,
	"xls":  true,
	"txt":  true,
}

type Questionnaire struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	Title           string           `json:"title" gorm:"not null"`
	Description     string           `json:"description,omitempty" gorm:"type:text"`
	DepartmentID    uint             `json:"department_id" gorm:"not null;index"`
	Department      Department       `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	SubjectID       uint             `json:"subject_id" gorm:"not null;index"`
	Subject         Subject          `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	TeacherID       uint             `json:"teacher_id" gorm:"not null;index"`
	Teacher         Teacher          `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	FilePath        string           `json:"file_path" gorm:"not null"`
	FileType        string           `json:"file_type" gorm:"not null"`
	FileSize        int64            `json:"file_size" gorm:"not null"`
	ExtractionStatus ExtractionStatus `json:"extraction_status" gorm:"type:varchar(20);default:'pending'"`
	ExtractionError string           `json:"extraction_error,omitempty" gorm:"type:text"`
	Questions       []Question       `json:"questions,omitempty" gorm:"foreignKey:QuestionnaireID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// FileSizeDisplay renders the stored byte count in a human unit.
func (q Questionnaire) FileSizeDisplay() string {
	size := float64(q.FileSize)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", size)
}
