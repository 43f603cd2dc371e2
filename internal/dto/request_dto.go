package dto

// QuestionnaireUploadRequest is the multipart form accompanying a file
// upload. QuestionTypes selects which types the AI should look for, Mode
// chooses between copying existing questions and generating new ones.
type QuestionnaireUploadRequest struct {
	Title         string   `form:"title" binding:"required"`
	Description   string   `form:"description"`
	SubjectID     uint     `form:"subject_id" binding:"required"`
	TeacherID     uint     `form:"teacher_id" binding:"required"`
	QuestionTypes []string `form:"question_types"`
	Mode          string   `form:"mode"`
}

// RetryExtractionRequest re-runs a failed extraction, optionally with a
// different type selection or mode.
type RetryExtractionRequest struct {
	QuestionTypes []string `json:"question_types"`
	Mode          string   `json:"mode"`
}

// ManualQuestionRequest adds a question during review. Manually entered
// questions are approved immediately.
type ManualQuestionRequest struct {
	Type         string  `json:"type" binding:"required"`
	QuestionText string  `json:"question_text" binding:"required"`
	OptionA      *string `json:"option_a"`
	OptionB      *string `json:"option_b"`
	OptionC      *string `json:"option_c"`
	OptionD      *string `json:"option_d"`
	Answer       string  `json:"answer"`
	Explanation  string  `json:"explanation"`
	Difficulty   string  `json:"difficulty"`
	Points       int     `json:"points"`
}

// QuestionUpdateRequest edits a stored question during review.
type QuestionUpdateRequest struct {
	QuestionText string  `json:"question_text" binding:"required"`
	OptionA      *string `json:"option_a"`
	OptionB      *string `json:"option_b"`
	OptionC      *string `json:"option_c"`
	OptionD      *string `json:"option_d"`
	Answer       string  `json:"answer"`
	Explanation  string  `json:"explanation"`
	Difficulty   string  `json:"difficulty"`
	Points       int     `json:"points"`
}

// GenerateDocumentRequest selects approved questions for a formatted exam
// document. Format is "docx" or "pdf"; PDF falls back to DOCX when the
// converter is unavailable.
type GenerateDocumentRequest struct {
	Title       string `json:"title" binding:"required"`
	Directions  string `json:"directions"`
	QuestionIDs []uint `json:"question_ids" binding:"required,min=1"`
	Format      string `json:"format" binding:"omitempty,oneof=docx pdf"`
}

// DepartmentCreateRequest and SubjectCreateRequest maintain the reference
// data that uploads and generated documents hang off.
type DepartmentCreateRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

type SubjectCreateRequest struct {
	Name         string `json:"name" binding:"required"`
	Code         string `json:"code" binding:"required"`
	DepartmentID uint   `json:"department_id" binding:"required"`
}

type TeacherCreateRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}
