package repository

import (
	"github.com/rmontano/testbank/internal/model"
	"gorm.io/gorm"
)

type DownloadRepository interface {
	Create(download *model.Download) error
	CountByQuestionnaire(questionnaireID uint) (int64, error)
}

type downloadRepository struct {
	db *gorm.DB
}

func NewDownloadRepository(db *gorm.DB) DownloadRepository {
	return &downloadRepository{db: db}
}

func (r *downloadRepository) Create(download *model.Download) error {
	return r.db.Create(download).Error
}

func (r *downloadRepository) CountByQuestionnaire(questionnaireID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Download{}).
		Where("questionnaire_id = ?", questionnaireID).
		Count(&count).Error
	return count, err
}
