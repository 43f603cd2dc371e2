package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rmontano/testbank/internal/dto"
	"github.com/rmontano/testbank/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(qs service.QuestionService) *QuestionController {
	return &QuestionController{questionService: qs}
}

// ListByQuestionnaire godoc
// @Summary List all questions of a questionnaire for review
// @Tags Questions
// @Produce json
// @Param id path int true "Questionnaire ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questionnaires/{id}/questions [get]
func (c *QuestionController) ListByQuestionnaire(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questions, err := c.questionService.ListByQuestionnaire(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// AddManual godoc
// @Summary Manually add a question to a questionnaire
// @Description Manually entered questions skip the review queue and are approved immediately.
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path int true "Questionnaire ID"
// @Param body body dto.ManualQuestionRequest true "Question fields"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questionnaires/{id}/questions [post]
func (c *QuestionController) AddManual(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ManualQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.questionService.AddManual(id, req)
	if err != nil {
		log.Warn().Err(err).Uint("questionnaireID", id).Msg("Manual question rejected")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary Edit a question during review
// @Tags Questions
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param body body dto.QuestionUpdateRequest true "Updated fields"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.questionService.Update(id, req)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Approve godoc
// @Summary Approve a question for inclusion in generated documents
// @Tags Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id}/approve [post]
func (c *QuestionController) Approve(ctx *gin.Context) {
	c.setApproval(ctx, true)
}

// Reject godoc
// @Summary Reject a question, excluding it from generated documents
// @Tags Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id}/reject [post]
func (c *QuestionController) Reject(ctx *gin.Context) {
	c.setApproval(ctx, false)
}

func (c *QuestionController) setApproval(ctx *gin.Context, approved bool) {
	id, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	resp, err := c.questionService.SetApproval(id, approved)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a question
// @Tags Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.questionService.Delete(id); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}
