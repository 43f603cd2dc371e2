package repository

import (
	"github.com/rmontano/testbank/internal/model"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(department *model.Department) error
	FindByID(id uint) (*model.Department, error)
	FindAll() ([]model.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(department *model.Department) error {
	return r.db.Create(department).Error
}

func (r *departmentRepository) FindByID(id uint) (*model.Department, error) {
	var department model.Department
	if err := r.db.First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindAll() ([]model.Department, error) {
	var departments []model.Department
	err := r.db.Order("name ASC").Find(&departments).Error
	return departments, err
}

type SubjectRepository interface {
	Create(subject *model.Subject) error
	FindByID(id uint) (*model.Subject, error)
	FindByIDWithDepartment(id uint) (*model.Subject, error)
	FindByDepartment(departmentID uint) ([]model.Subject, error)
	FindAll() ([]model.Subject, error)
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *model.Subject) error {
	return r.db.Create(subject).Error
}

func (r *subjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) FindByIDWithDepartment(id uint) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.Preload("Department").First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) FindByDepartment(departmentID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.Where("department_id = ?", departmentID).Order("code ASC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) FindAll() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.Preload("Department").Order("code ASC").Find(&subjects).Error
	return subjects, err
}
