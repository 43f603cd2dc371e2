package model

import (
	"time"

	"gorm.io/gorm"
)

// Question type names. The set is closed; the question_types table is a
// reference table seeded at migration and never edited at runtime.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeIdentification = "identification"
	TypeEssay          = "essay"
	TypeFillBlank      = "fill_blank"
	TypeMatching       = "matching"
)

type QuestionType struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// SectionConfig carries the rendering rules for one question type in a
// generated exam document.
type SectionConfig struct {
	Name        string
	Label       string
	Instruction string
}

// SectionOrder is the canonical section order of generated documents.
// Only types that actually have questions produce a PART in the output.
var SectionOrder = []SectionConfig{
	{
		Name:        TypeIdentification,
		Label:       "Identification",
		Instruction: "Read carefully and identify what is being asked.",
	},
	{
		Name:        TypeMultipleChoice,
		Label:       "Multiple Choice",
		Instruction: "Write the CAPITAL LETTER of the best response.",
	},
	{
		Name:        TypeTrueFalse,
		Label:       "True or False",
		Instruction: "Write TRUE if the statement is correct, otherwise write FALSE.",
	},
	{
		Name:        TypeEssay,
		Label:       "Essay",
		Instruction: "Answer the following questions comprehensively.",
	},
	{
		Name:        TypeFillBlank,
		Label:       "Fill in the Blanks",
		Instruction: "Complete the following statements.",
	},
	{
		Name:        TypeMatching,
		Label:       "Matching Type",
		Instruction: "Match the items in Column A with those in Column B.",
	},
}

// SeedQuestionTypes returns the fixed reference rows for the question_types
// table.
func SeedQuestionTypes() []QuestionType {
	types := make([]QuestionType, 0, len(SectionOrder))
	for _, sc := range SectionOrder {
		types = append(types, QuestionType{Name: sc.Name, Description: sc.Label, IsActive: true})
	}
	return types
}

// KnownTypeName reports whether name is one of the seeded question types.
func KnownTypeName(name string) bool {
	for _, sc := range SectionOrder {
		if sc.Name == name {
			return true
		}
	}
	return false
}
