package repository

import (
	"github.com/rmontano/testbank/internal/model"
	"gorm.io/gorm"
)

type QuestionTypeRepository interface {
	FindByName(name string) (*model.QuestionType, error)
	FindActive() ([]model.QuestionType, error)
	Seed() error
}

type questionTypeRepository struct {
	db *gorm.DB
}

func NewQuestionTypeRepository(db *gorm.DB) QuestionTypeRepository {
	return &questionTypeRepository{db: db}
}

func (r *questionTypeRepository) FindByName(name string) (*model.QuestionType, error) {
	var qt model.QuestionType
	if err := r.db.Where("name = ?", name).First(&qt).Error; err != nil {
		return nil, err
	}
	return &qt, nil
}

func (r *questionTypeRepository) FindActive() ([]model.QuestionType, error) {
	var types []model.QuestionType
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&types).Error
	return types, err
}

// Seed inserts the fixed question type rows, skipping any that exist.
func (r *questionTypeRepository) Seed() error {
	for _, qt := range model.SeedQuestionTypes() {
		if err := r.db.Where("name = ?", qt.Name).FirstOrCreate(&qt).Error; err != nil {
			return err
		}
	}
	return nil
}
