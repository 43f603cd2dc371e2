package dto

import "time"

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type DepartmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type SubjectResponse struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Code         string             `json:"code"`
	DepartmentID uint               `json:"department_id"`
	Department   DepartmentResponse `json:"department,omitempty"`
}

type TeacherResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type QuestionnaireResponse struct {
	ID               uint               `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	Department       DepartmentResponse `json:"department,omitempty"`
	Subject          SubjectResponse    `json:"subject,omitempty"`
	Teacher          TeacherResponse    `json:"teacher,omitempty"`
	FileType         string             `json:"file_type"`
	FileSize         int64              `json:"file_size"`
	ExtractionStatus string             `json:"extraction_status"`
	ExtractionError  string             `json:"extraction_error,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// QuestionnaireUploadResponse reports the outcome of an upload including
// how many questions the extraction produced.
type QuestionnaireUploadResponse struct {
	Questionnaire QuestionnaireResponse `json:"questionnaire"`
	QuestionCount int                   `json:"question_count"`
	Mode          string                `json:"mode"`
}

type QuestionResponse struct {
	ID               uint      `json:"id"`
	QuestionnaireID  uint      `json:"questionnaire_id"`
	QuestionTypeName string    `json:"question_type"`
	QuestionText     string    `json:"question_text"`
	OptionA          *string   `json:"option_a,omitempty"`
	OptionB          *string   `json:"option_b,omitempty"`
	OptionC          *string   `json:"option_c,omitempty"`
	OptionD          *string   `json:"option_d,omitempty"`
	CorrectAnswer    string    `json:"correct_answer"`
	Explanation      string    `json:"explanation,omitempty"`
	Points           int       `json:"points"`
	Difficulty       string    `json:"difficulty"`
	IsApproved       bool      `json:"is_approved"`
	CreatedAt        time.Time `json:"created_at"`
}

// PagedQuestionnaires is a paginated listing envelope.
type PagedQuestionnaires struct {
	Items    []QuestionnaireResponse `json:"items"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}
