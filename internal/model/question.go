package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question is a validated question persisted from an AI extraction run or
// added manually during review.
type Question struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	QuestionnaireID uint           `json:"questionnaire_id" gorm:"not null;index"`
	QuestionTypeID  uint           `json:"question_type_id" gorm:"not null;index"`
	QuestionType    QuestionType   `json:"question_type,omitempty" gorm:"foreignKey:QuestionTypeID"`
	QuestionText    string         `json:"question_text" gorm:"type:text;not null"`
	OptionA         *string        `json:"option_a,omitempty" gorm:"type:text"`
	OptionB         *string        `json:"option_b,omitempty" gorm:"type:text"`
	OptionC         *string        `json:"option_c,omitempty" gorm:"type:text"`
	OptionD         *string        `json:"option_d,omitempty" gorm:"type:text"`
	CorrectAnswer   string         `json:"correct_answer" gorm:"type:text"`
	Explanation     string         `json:"explanation,omitempty" gorm:"type:text"`
	Points          int            `json:"points" gorm:"default:1"`
	Difficulty      string         `json:"difficulty" gorm:"type:varchar(20);default:'medium'"`
	IsApproved      bool           `json:"is_approved" gorm:"default:false"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Options returns the (letter, text) pairs for multiple-choice rendering.
func (q Question) Options() [][2]string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return [][2]string{
		{"a", deref(q.OptionA)},
		{"b", deref(q.OptionB)},
		{"c", deref(q.OptionC)},
		{"d", deref(q.OptionD)},
	}
}

// CandidateQuestion is a question surfaced by the AI response parser before
// persistence. Candidates that fail validation are dropped, never stored.
type CandidateQuestion struct {
	Type        string
	Question    string
	OptionA     string
	OptionB     string
	OptionC     string
	OptionD     string
	Answer      string
	Explanation string
	Difficulty  string
	Points      int
}
