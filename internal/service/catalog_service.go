package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rmontano/testbank/internal/dto"
	"github.com/rmontano/testbank/internal/model"
	"github.com/rmontano/testbank/internal/repository"
)

// CatalogService maintains the reference data questionnaires hang off:
// departments, their subjects, and teachers.
type CatalogService interface {
	CreateDepartment(req dto.DepartmentCreateRequest) (*dto.DepartmentResponse, error)
	ListDepartments() ([]dto.DepartmentResponse, error)
	CreateSubject(req dto.SubjectCreateRequest) (*dto.SubjectResponse, error)
	ListSubjects(departmentID uint) ([]dto.SubjectResponse, error)
	CreateTeacher(req dto.TeacherCreateRequest) (*dto.TeacherResponse, error)
	ListTeachers() ([]dto.TeacherResponse, error)
}

type catalogService struct {
	departmentRepo repository.DepartmentRepository
	subjectRepo    repository.SubjectRepository
	teacherRepo    repository.TeacherRepository
}

func NewCatalogService(
	departmentRepo repository.DepartmentRepository,
	subjectRepo repository.SubjectRepository,
	teacherRepo repository.TeacherRepository,
) CatalogService {
	return &catalogService{
		departmentRepo: departmentRepo,
		subjectRepo:    subjectRepo,
		teacherRepo:    teacherRepo,
	}
}

func (s *catalogService) CreateDepartment(req dto.DepartmentCreateRequest) (*dto.DepartmentResponse, error) {
	dept := model.Department{Name: req.Name, Code: req.Code}
	if err := s.departmentRepo.Create(&dept); err != nil {
		return nil, fmt.Errorf("creating department: %w", err)
	}
	var resp dto.DepartmentResponse
	copier.Copy(&resp, &dept)
	return &resp, nil
}

func (s *catalogService) ListDepartments() ([]dto.DepartmentResponse, error) {
	depts, err := s.departmentRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	resp := make([]dto.DepartmentResponse, len(depts))
	for i := range depts {
		copier.Copy(&resp[i], &depts[i])
	}
	return resp, nil
}

func (s *catalogService) CreateSubject(req dto.SubjectCreateRequest) (*dto.SubjectResponse, error) {
	if _, err := s.departmentRepo.FindByID(req.DepartmentID); err != nil {
		return nil, fmt.Errorf("department %d not found: %w", req.DepartmentID, err)
	}
	subject := model.Subject{Name: req.Name, Code: req.Code, DepartmentID: req.DepartmentID}
	if err := s.subjectRepo.Create(&subject); err != nil {
		return nil, fmt.Errorf("creating subject: %w", err)
	}
	var resp dto.SubjectResponse
	copier.Copy(&resp, &subject)
	return &resp, nil
}

func (s *catalogService) ListSubjects(departmentID uint) ([]dto.SubjectResponse, error) {
	var (
		subjects []model.Subject
		err      error
	)
	if departmentID != 0 {
		subjects, err = s.subjectRepo.FindByDepartment(departmentID)
	} else {
		subjects, err = s.subjectRepo.FindAll()
	}
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	resp := make([]dto.SubjectResponse, len(subjects))
	for i := range subjects {
		copier.Copy(&resp[i], &subjects[i])
	}
	return resp, nil
}

func (s *catalogService) CreateTeacher(req dto.TeacherCreateRequest) (*dto.TeacherResponse, error) {
	teacher := model.Teacher{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
	if err := s.teacherRepo.Create(&teacher); err != nil {
		return nil, fmt.Errorf("creating teacher: %w", err)
	}
	var resp dto.TeacherResponse
	copier.Copy(&resp, &teacher)
	return &resp, nil
}

func (s *catalogService) ListTeachers() ([]dto.TeacherResponse, error) {
	teachers, err := s.teacherRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing teachers: %w", err)
	}
	resp := make([]dto.TeacherResponse, len(teachers))
	for i := range teachers {
		copier.Copy(&resp[i], &teachers[i])
	}
	return resp, nil
}
