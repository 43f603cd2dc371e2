package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rmontano/testbank/internal/dto"
	"github.com/rmontano/testbank/internal/service"
	"github.com/rs/zerolog/log"
)

// AdminController maintains the reference catalog and gives administrators a
// cross-teacher view of the questionnaire bank.
type AdminController struct {
	catalogService       service.CatalogService
	questionnaireService service.QuestionnaireService
}

func NewAdminController(cs service.CatalogService, qs service.QuestionnaireService) *AdminController {
	return &AdminController{catalogService: cs, questionnaireService: qs}
}

// CreateDepartment godoc
// @Summary (Admin) Create a department
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param body body dto.DepartmentCreateRequest true "Department fields"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/departments [post]
func (c *AdminController) CreateDepartment(ctx *gin.Context) {
	var req dto.DepartmentCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateDepartment(req)
	if err != nil {
		log.Error().Err(err).Str("code", req.Code).Msg("Creating department failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create department", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListDepartments godoc
// @Summary (Admin) List departments
// @Tags Admin - Catalog
// @Produce json
// @Success 200 {array} dto.DepartmentResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/departments [get]
func (c *AdminController) ListDepartments(ctx *gin.Context) {
	resp, err := c.catalogService.ListDepartments()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list departments", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateSubject godoc
// @Summary (Admin) Create a subject under a department
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param body body dto.SubjectCreateRequest true "Subject fields"
// @Success 201 {object} dto.SubjectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/subjects [post]
func (c *AdminController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateSubject(req)
	if err != nil {
		log.Error().Err(err).Str("code", req.Code).Msg("Creating subject failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create subject", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListSubjects godoc
// @Summary (Admin) List subjects, optionally by department
// @Tags Admin - Catalog
// @Produce json
// @Param department_id query int false "Filter by department"
// @Success 200 {array} dto.SubjectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/subjects [get]
func (c *AdminController) ListSubjects(ctx *gin.Context) {
	var departmentID uint
	if raw := ctx.Query("department_id"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid department_id"})
			return
		}
		departmentID = uint(val)
	}
	resp, err := c.catalogService.ListSubjects(departmentID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list subjects", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateTeacher godoc
// @Summary (Admin) Register a teacher
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param body body dto.TeacherCreateRequest true "Teacher fields"
// @Success 201 {object} dto.TeacherResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/teachers [post]
func (c *AdminController) CreateTeacher(ctx *gin.Context) {
	var req dto.TeacherCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateTeacher(req)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Creating teacher failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create teacher", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTeachers godoc
// @Summary (Admin) List registered teachers
// @Tags Admin - Catalog
// @Produce json
// @Success 200 {array} dto.TeacherResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/teachers [get]
func (c *AdminController) ListTeachers(ctx *gin.Context) {
	resp, err := c.catalogService.ListTeachers()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list teachers", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListQuestionnaires godoc
// @Summary (Admin) List questionnaires across all teachers
// @Tags Admin - Questionnaires
// @Produce json
// @Param department_id query int false "Filter by department"
// @Param subject_id query int false "Filter by subject"
// @Param search query string false "Title search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.PagedQuestionnaires
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/questionnaires [get]
func (c *AdminController) ListQuestionnaires(ctx *gin.Context) {
	parseOptionalID := func(name string) (uint, bool) {
		raw := ctx.Query(name)
		if raw == "" {
			return 0, true
		}
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name})
			return 0, false
		}
		return uint(val), true
	}

	departmentID, ok := parseOptionalID("department_id")
	if !ok {
		return
	}
	subjectID, ok := parseOptionalID("subject_id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	resp, err := c.questionnaireService.ListAll(departmentID, subjectID, ctx.Query("search"), page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list questionnaires", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
