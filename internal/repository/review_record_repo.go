package repository

import (
	"go-cms-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRecordRepository interface {
	// CreateTx inserts within the caller's transaction so the record commits
	// or rolls back together with the content status change.
	CreateTx(tx *gorm.DB, record *model.ReviewRecord) error
	FindByContentID(contentID uuid.UUID) ([]model.ReviewRecord, error)
}

type reviewRecordRepo struct {
	db *gorm.DB
}

func NewReviewRecordRepo(db *gorm.DB) ReviewRecordRepository {
	return &reviewRecordRepo{db}
}

func (r *reviewRecordRepo) CreateTx(tx *gorm.DB, record *model.ReviewRecord) error {
	return tx.Create(record).Error
}

func (r *reviewRecordRepo) FindByContentID(contentID uuid.UUID) ([]model.ReviewRecord, error) {
	var records []model.ReviewRecord
	err := r.db.
		Preload("Reviewer").
		Where("content_id = ?", contentID).
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
