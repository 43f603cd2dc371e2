package repository

import (
	"github.com/rmontano/testbank/internal/model"
	"gorm.io/gorm"
)

type QuestionnaireRepository interface {
	Create(q *model.Questionnaire) error
	FindByID(id uint) (*model.Questionnaire, error)
	FindByIDWithRelations(id uint) (*model.Questionnaire, error)
	FindByTeacher(teacherID uint, search string, offset, limit int) ([]model.Questionnaire, int64, error)
	FindAll(departmentID, subjectID uint, search string, offset, limit int) ([]model.Questionnaire, int64, error)
	Update(q *model.Questionnaire) error
	Delete(id uint) error
	// ClaimForExtraction conditionally moves the questionnaire into
	// "processing". The WHERE clause is the single-flight guard: a document
	// already processing (or completed) is not claimable, so two concurrent
	// retries cannot both start an extraction run.
	ClaimForExtraction(id uint) (bool, error)
	SetExtractionResult(id uint, status model.ExtractionStatus, errMsg string) error
}

type questionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

func (r *questionnaireRepository) Create(q *model.Questionnaire) error {
	return r.db.Create(q).Error
}

func (r *questionnaireRepository) FindByID(id uint) (*model.Questionnaire, error) {
	var q model.Questionnaire
	if err := r.db.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionnaireRepository) FindByIDWithRelations(id uint) (*model.Questionnaire, error) {
	var q model.Questionnaire
	err := r.db.
		Preload("Department").
		Preload("Subject").
		Preload("Teacher").
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionnaireRepository) FindByTeacher(teacherID uint, search string, offset, limit int) ([]model.Questionnaire, int64, error) {
	query := r.db.Model(&model.Questionnaire{}).
		Preload("Department").
		Preload("Subject").
		Where("teacher_id = ?", teacherID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var qs []model.Questionnaire
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

func (r *questionnaireRepository) FindAll(departmentID, subjectID uint, search string, offset, limit int) ([]model.Questionnaire, int64, error) {
	query := r.db.Model(&model.Questionnaire{}).
		Preload("Department").
		Preload("Subject").
		Preload("Teacher")
	if departmentID != 0 {
		query = query.Where("department_id = ?", departmentID)
	}
	if subjectID != 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var qs []model.Questionnaire
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

func (r *questionnaireRepository) Update(q *model.Questionnaire) error {
	return r.db.Save(q).Error
}

func (r *questionnaireRepository) Delete(id uint) error {
	return r.db.Delete(&model.Questionnaire{}, id).Error
}

func (r *questionnaireRepository) ClaimForExtraction(id uint) (bool, error) {
	res := r.db.Model(&model.Questionnaire{}).
		Where("id = ? AND extraction_status IN ?", id, []model.ExtractionStatus{model.StatusPending, model.StatusFailed}).
		Updates(map[string]interface{}{
			"extraction_status": model.StatusProcessing,
			"extraction_error":  "",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *questionnaireRepository) SetExtractionResult(id uint, status model.ExtractionStatus, errMsg string) error {
	return r.db.Model(&model.Questionnaire{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"extraction_status": status,
			"extraction_error":  errMsg,
		}).Error
}
