package teacher

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rmontano/testbank/internal/dto"
	"github.com/rmontano/testbank/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionnaireController struct {
	questionnaireService service.QuestionnaireService
}

func NewQuestionnaireController(qs service.QuestionnaireService) *QuestionnaireController {
	return &QuestionnaireController{questionnaireService: qs}
}

// Upload godoc
// @Summary Upload a questionnaire document and extract its questions
// @Description Accepts a PDF, DOCX, DOC, XLSX, XLS or TXT file, stores it, and runs AI extraction synchronously. An upload whose extraction yields no questions is rolled back.
// @Tags Questionnaires
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Questionnaire document"
// @Param title formData string true "Questionnaire title"
// @Param subject_id formData int true "Subject ID"
// @Param teacher_id formData int true "Teacher ID"
// @Param description formData string false "Description"
// @Param question_types formData []string false "Question types to extract (defaults to all active types)"
// @Param mode formData string false "extract or generate"
// @Success 201 {object} dto.QuestionnaireUploadResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid form, unsupported format, or oversize file"
// @Failure 422 {object} dto.ErrorResponse "Extraction produced no usable questions"
// @Failure 500 {object} dto.ErrorResponse
// @Router /questionnaires [post]
func (c *QuestionnaireController) Upload(ctx *gin.Context) {
	var req dto.QuestionnaireUploadRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid upload form", Details: []string{err.Error()}})
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing file field", Details: []string{err.Error()}})
		return
	}

	resp, err := c.questionnaireService.Upload(ctx.Request.Context(), req, file)
	if err != nil {
		var unsupported *service.UnsupportedFormatError
		switch {
		case errors.As(err, &unsupported):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrZeroQuestions), errors.Is(err, service.ErrEmptyContent):
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		default:
			log.Error().Err(err).Str("title", req.Title).Msg("Upload failed")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to process upload", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List questionnaires for a teacher
// @Tags Questionnaires
// @Produce json
// @Param teacher_id query int true "Teacher ID"
// @Param search query string false "Title search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PagedQuestionnaires
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /questionnaires [get]
func (c *QuestionnaireController) List(ctx *gin.Context) {
	teacherID, err := strconv.ParseUint(ctx.Query("teacher_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid teacher_id"})
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	resp, err := c.questionnaireService.ListByTeacher(uint(teacherID), ctx.Query("search"), page, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("Listing questionnaires failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list questionnaires", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a questionnaire with its extraction status
// @Tags Questionnaires
// @Produce json
// @Param id path int true "Questionnaire ID"
// @Success 200 {object} dto.QuestionnaireResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questionnaires/{id} [get]
func (c *QuestionnaireController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.questionnaireService.Get(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a questionnaire, its questions, and its stored file
// @Tags Questionnaires
// @Produce json
// @Param id path int true "Questionnaire ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questionnaires/{id} [delete]
func (c *QuestionnaireController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.questionnaireService.Delete(id); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Download godoc
// @Summary Download the original uploaded document
// @Description Streams the stored file and records a download audit entry with the client IP.
// @Tags Questionnaires
// @Produce octet-stream
// @Param id path int true "Questionnaire ID"
// @Param teacher_id query int false "Teacher performing the download"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questionnaires/{id}/download [get]
func (c *QuestionnaireController) Download(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var teacherID *uint
	if raw := ctx.Query("teacher_id"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid teacher_id"})
			return
		}
		tID := uint(val)
		teacherID = &tID
	}

	rc, filename, err := c.questionnaireService.Download(id, teacherID, ctx.ClientIP())
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	defer rc.Close()

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Header("Content-Type", "application/octet-stream")
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, rc); err != nil {
		log.Warn().Err(err).Uint("questionnaireID", id).Msg("Download stream interrupted")
	}
}

// Retry godoc
// @Summary Retry extraction for a failed questionnaire
// @Tags Questionnaires
// @Accept json
// @Produce json
// @Param id path int true "Questionnaire ID"
// @Param body body dto.RetryExtractionRequest false "Optional type and mode overrides"
// @Success 200 {object} dto.QuestionnaireResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Extraction already running or not retryable"
// @Failure 500 {object} dto.ErrorResponse
// @Router /questionnaires/{id}/retry [post]
func (c *QuestionnaireController) Retry(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.RetryExtractionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
			return
		}
	}

	resp, err := c.questionnaireService.Retry(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotClaimable) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).Uint("questionnaireID", id).Msg("Retry extraction failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Extraction failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GenerateDocument godoc
// @Summary Generate a formatted exam document from approved questions
// @Description Renders the selected approved questions into a DOCX exam grouped by question type. PDF output falls back to DOCX when the converter is unavailable; the fallback is flagged in the X-Pdf-Skipped header.
// @Tags Questionnaires
// @Accept json
// @Produce octet-stream
// @Param id path int true "Questionnaire ID"
// @Param body body dto.GenerateDocumentRequest true "Title, directions, question selection, and format"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /questionnaires/{id}/generate [post]
func (c *QuestionnaireController) GenerateDocument(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.GenerateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	doc, err := c.questionnaireService.GenerateDocument(ctx.Request.Context(), id, req)
	if err != nil {
		log.Error().Err(err).Uint("questionnaireID", id).Msg("Document generation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to generate document", Details: []string{err.Error()}})
		return
	}

	if doc.PDFSkipped {
		ctx.Header("X-Pdf-Skipped", "true")
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	ctx.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}

// pathID parses a positive integer path parameter, writing the 400 itself.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
