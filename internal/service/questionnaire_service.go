package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rmontano/testbank/config"
	"github.com/rmontano/testbank/internal/dto"
	"github.com/rmontano/testbank/internal/model"
	"github.com/rmontano/testbank/internal/repository"
	"github.com/rmontano/testbank/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypePDF  = "application/pdf"
)

// GeneratedDocument is a rendered exam ready to stream to the caller.
// PDFSkipped is set when PDF output was requested but the converter was
// unavailable, in which case Bytes holds the DOCX fallback.
type GeneratedDocument struct {
	Filename    string
	ContentType string
	Bytes       []byte
	PDFSkipped  bool
}

// QuestionnaireService owns the document lifecycle: upload with synchronous
// extraction, listing, download with audit, retry, and exam generation.
type QuestionnaireService interface {
	Upload(ctx context.Context, req dto.QuestionnaireUploadRequest, file *multipart.FileHeader) (*dto.QuestionnaireUploadResponse, error)
	Get(id uint) (*dto.QuestionnaireResponse, error)
	ListByTeacher(teacherID uint, search string, page, pageSize int) (*dto.PagedQuestionnaires, error)
	ListAll(departmentID, subjectID uint, search string, page, pageSize int) (*dto.PagedQuestionnaires, error)
	Delete(id uint) error
	Download(id uint, teacherID *uint, ip string) (io.ReadCloser, string, error)
	Retry(ctx context.Context, id uint, req dto.RetryExtractionRequest) (*dto.QuestionnaireResponse, error)
	GenerateDocument(ctx context.Context, id uint, req dto.GenerateDocumentRequest) (*GeneratedDocument, error)
}

type questionnaireService struct {
	cfg               *config.Config
	questionnaireRepo repository.QuestionnaireRepository
	questionRepo      repository.QuestionRepository
	typeRepo          repository.QuestionTypeRepository
	subjectRepo       repository.SubjectRepository
	teacherRepo       repository.TeacherRepository
	downloadRepo      repository.DownloadRepository
	files             storage.FileStore
	extraction        ExtractionService
	generator         DocumentGenerator
}

func NewQuestionnaireService(
	cfg *config.Config,
	questionnaireRepo repository.QuestionnaireRepository,
	questionRepo repository.QuestionRepository,
	typeRepo repository.QuestionTypeRepository,
	subjectRepo repository.SubjectRepository,
	teacherRepo repository.TeacherRepository,
	downloadRepo repository.DownloadRepository,
	files storage.FileStore,
	extraction ExtractionService,
	generator DocumentGenerator,
) QuestionnaireService {
	return &questionnaireService{
		cfg:               cfg,
		questionnaireRepo: questionnaireRepo,
		questionRepo:      questionRepo,
		typeRepo:          typeRepo,
		subjectRepo:       subjectRepo,
		teacherRepo:       teacherRepo,
		downloadRepo:      downloadRepo,
		files:             files,
		extraction:        extraction,
		generator:         generator,
	}
}

// Upload stores the file, creates the questionnaire row, and runs the
// extraction synchronously so the caller gets a question count back. A run
// that yields zero questions rolls the whole upload back; other extraction
// failures keep the document in the failed state so it can be retried.
func (s *questionnaireService) Upload(ctx context.Context, req dto.QuestionnaireUploadRequest, file *multipart.FileHeader) (*dto.QuestionnaireUploadResponse, error) {
	fileType := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !model.AllowedFileTypes[fileType] {
		return nil, &UnsupportedFormatError{Format: fileType}
	}
	if file.Size > s.cfg.Upload.MaxFileSize {
		return nil, fmt.Errorf("file size %d exceeds the %d byte limit", file.Size, s.cfg.Upload.MaxFileSize)
	}

	mode, err := ParseExtractionMode(req.Mode)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjectRepo.FindByIDWithDepartment(req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("subject %d not found: %w", req.SubjectID, err)
	}
	if _, err := s.teacherRepo.FindByID(req.TeacherID); err != nil {
		return nil, fmt.Errorf("teacher %d not found: %w", req.TeacherID, err)
	}

	typeNames, err := s.resolveTypeNames(req.QuestionTypes)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("questionnaires/%s/%s/%s_%s",
		subject.Department.Code, subject.Code, uuid.NewString()[:8], filepath.Base(file.Filename))
	if _, err := s.files.Put(key, src); err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	questionnaire := model.Questionnaire{
		Title:            req.Title,
		Description:      req.Description,
		DepartmentID:     subject.DepartmentID,
		SubjectID:        subject.ID,
		TeacherID:        req.TeacherID,
		FilePath:         key,
		FileType:         fileType,
		FileSize:         file.Size,
		ExtractionStatus: model.StatusPending,
	}
	if err := s.questionnaireRepo.Create(&questionnaire); err != nil {
		s.files.Delete(key)
		return nil, fmt.Errorf("creating questionnaire: %w", err)
	}

	log.Info().
		Uint("questionnaireID", questionnaire.ID).
		Str("fileType", fileType).
		Str("mode", mode.String()).
		Msg("Questionnaire uploaded, starting extraction")

	questions, err := s.extraction.Run(ctx, questionnaire.ID, typeNames, mode)
	if err != nil {
		if errors.Is(err, ErrZeroQuestions) || errors.Is(err, ErrEmptyContent) {
			s.rollbackUpload(questionnaire.ID, key)
			return nil, err
		}
		// The document stays stored in the failed state; the client can
		// retry extraction without re-uploading.
		return nil, err
	}

	full, err := s.questionnaireRepo.FindByIDWithRelations(questionnaire.ID)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionnaireUploadResponse{
		Questionnaire: toQuestionnaireResponse(*full),
		QuestionCount: len(questions),
		Mode:          mode.String(),
	}, nil
}

func (s *questionnaireService) rollbackUpload(id uint, key string) {
	if err := s.questionRepo.DeleteByQuestionnaire(id); err != nil {
		log.Error().Err(err).Uint("questionnaireID", id).Msg("Rollback: deleting questions failed")
	}
	if err := s.questionnaireRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("questionnaireID", id).Msg("Rollback: deleting questionnaire failed")
	}
	if err := s.files.Delete(key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Rollback: deleting stored file failed")
	}
}

func (s *questionnaireService) resolveTypeNames(requested []string) ([]string, error) {
	if len(requested) == 0 {
		active, err := s.typeRepo.FindActive()
		if err != nil {
			return nil, fmt.Errorf("loading question types: %w", err)
		}
		names := make([]string, len(active))
		for i, t := range active {
			names[i] = t.Name
		}
		return names, nil
	}
	for _, name := range requested {
		if !model.KnownTypeName(name) {
			return nil, fmt.Errorf("unknown question type %q", name)
		}
	}
	return requested, nil
}

func (s *questionnaireService) Get(id uint) (*dto.QuestionnaireResponse, error) {
	q, err := s.questionnaireRepo.FindByIDWithRelations(id)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %d not found: %w", id, err)
	}
	resp := toQuestionnaireResponse(*q)
	return &resp, nil
}

func (s *questionnaireService) ListByTeacher(teacherID uint, search string, page, pageSize int) (*dto.PagedQuestionnaires, error) {
	page, pageSize = normalizePaging(page, pageSize)
	items, total, err := s.questionnaireRepo.FindByTeacher(teacherID, search, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing questionnaires: %w", err)
	}
	return pagedResponse(items, total, page, pageSize), nil
}

func (s *questionnaireService) ListAll(departmentID, subjectID uint, search string, page, pageSize int) (*dto.PagedQuestionnaires, error) {
	page, pageSize = normalizePaging(page, pageSize)
	items, total, err := s.questionnaireRepo.FindAll(departmentID, subjectID, search, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing questionnaires: %w", err)
	}
	return pagedResponse(items, total, page, pageSize), nil
}

func (s *questionnaireService) Delete(id uint) error {
	q, err := s.questionnaireRepo.FindByID(id)
	if err != nil {
		return fmt.Errorf("questionnaire %d not found: %w", id, err)
	}
	if err := s.questionRepo.DeleteByQuestionnaire(id); err != nil {
		return fmt.Errorf("deleting questions: %w", err)
	}
	if err := s.questionnaireRepo.Delete(id); err != nil {
		return fmt.Errorf("deleting questionnaire: %w", err)
	}
	if err := s.files.Delete(q.FilePath); err != nil {
		log.Warn().Err(err).Str("key", q.FilePath).Msg("Stored file removal failed")
	}
	return nil
}

// Download streams the original uploaded file and records an audit row.
func (s *questionnaireService) Download(id uint, teacherID *uint, ip string) (io.ReadCloser, string, error) {
	q, err := s.questionnaireRepo.FindByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("questionnaire %d not found: %w", id, err)
	}
	rc, err := s.files.Get(q.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("opening stored file: %w", err)
	}
	if err := s.downloadRepo.Create(&model.Download{
		QuestionnaireID: q.ID,
		TeacherID:       teacherID,
		IPAddress:       ip,
	}); err != nil {
		log.Warn().Err(err).Uint("questionnaireID", q.ID).Msg("Download audit record failed")
	}
	return rc, filepath.Base(q.FilePath), nil
}

// Retry re-runs extraction on a failed document. The conditional status
// claim rejects retries while a run is already in flight.
func (s *questionnaireService) Retry(ctx context.Context, id uint, req dto.RetryExtractionRequest) (*dto.QuestionnaireResponse, error) {
	mode, err := ParseExtractionMode(req.Mode)
	if err != nil {
		return nil, err
	}
	typeNames, err := s.resolveTypeNames(req.QuestionTypes)
	if err != nil {
		return nil, err
	}
	if _, err := s.extraction.Run(ctx, id, typeNames, mode); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// GenerateDocument renders the selected approved questions into a DOCX
// exam, converting to PDF when requested and the converter is available.
func (s *questionnaireService) GenerateDocument(ctx context.Context, id uint, req dto.GenerateDocumentRequest) (*GeneratedDocument, error) {
	q, err := s.questionnaireRepo.FindByIDWithRelations(id)
	if err != nil {
		return nil, fmt.Errorf("questionnaire %d not found: %w", id, err)
	}

	questions, err := s.questionRepo.FindApprovedByIDs(id, req.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, errors.New("no approved questions matched the selection")
	}

	directions := req.Directions
	if strings.TrimSpace(directions) == "" {
		directions = DefaultDirections
	}

	data := ExamData{
		Institution: s.cfg.Institution,
		Department:  q.Department.Name,
		Semester:    s.cfg.TermLabel,
		Title:       req.Title,
		CourseCode:  q.Subject.Code,
		CourseName:  q.Subject.Name,
		Program:     q.Department.Code,
		Instructor:  q.Teacher.FullName(),
		Directions:  directions,
		Sections:    s.generator.BuildSections(questions),
	}

	docxBytes, err := s.generator.Generate(data)
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	name := s.generator.SanitizeFilename(q.Subject.Code, req.Title)
	docxKey := fmt.Sprintf("generated_questionnaires/%s.docx", name)
	if _, err := s.files.Put(docxKey, bytes.NewReader(docxBytes)); err != nil {
		return nil, fmt.Errorf("storing generated document: %w", err)
	}

	result := &GeneratedDocument{
		Filename:    name + ".docx",
		ContentType: contentTypeDOCX,
		Bytes:       docxBytes,
	}
	if req.Format != "pdf" {
		return result, nil
	}

	pdfPath, err := s.generator.ConvertToPDF(ctx, s.files.Path(docxKey), filepath.Dir(s.files.Path(docxKey)))
	if err != nil {
		log.Warn().Err(err).Msg("PDF conversion unavailable, returning DOCX")
		result.PDFSkipped = true
		return result, nil
	}
	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Warn().Err(err).Str("pdf", pdfPath).Msg("Reading converted PDF failed, returning DOCX")
		result.PDFSkipped = true
		return result, nil
	}
	result.Filename = name + ".pdf"
	result.ContentType = contentTypePDF
	result.Bytes = pdfBytes
	return result, nil
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func pagedResponse(items []model.Questionnaire, total int64, page, pageSize int) *dto.PagedQuestionnaires {
	resp := make([]dto.QuestionnaireResponse, len(items))
	for i, q := range items {
		resp[i] = toQuestionnaireResponse(q)
	}
	return &dto.PagedQuestionnaires{Items: resp, Total: total, Page: page, PageSize: pageSize}
}

func toQuestionnaireResponse(q model.Questionnaire) dto.QuestionnaireResponse {
	var resp dto.QuestionnaireResponse
	copier.Copy(&resp, &q)
	resp.ExtractionStatus = string(q.ExtractionStatus)
	return resp
}
