package repository

import (
	"github.com/rmontano/testbank/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByQuestionnaire(questionnaireID uint) ([]model.Question, error)
	FindApprovedByIDs(questionnaireID uint, ids []uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
	DeleteByQuestionnaire(questionnaireID uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("QuestionType").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByQuestionnaire(questionnaireID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("QuestionType").
		Where("questionnaire_id = ?", questionnaireID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindApprovedByIDs(questionnaireID uint, ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("QuestionType").
		Where("questionnaire_id = ? AND id IN ? AND is_approved = ?", questionnaireID, ids, true).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}

func (r *questionRepository) DeleteByQuestionnaire(questionnaireID uint) error {
	return r.db.Unscoped().
		Where("questionnaire_id = ?", questionnaireID).
		Delete(&model.Question{}).Error
}
