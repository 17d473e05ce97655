package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go_upload_broker/models"
)

type fileRepository struct {
	DB *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{DB: db}
}

func (r *fileRepository) Create(ctx context.Context, record *models.FileRecord) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

func (r *fileRepository) GetByKey(ctx context.Context, key string) (*models.FileRecord, error) {
	var record models.FileRecord
	err := r.DB.WithContext(ctx).Where("key = ?", key).First(&record).Error
	return &record, err
}

func (r *fileRepository) UpdateStatus(ctx context.Context, key string, status string) error {
	return r.DB.WithContext(ctx).Model(&models.FileRecord{}).Where("key = ?", key).Update("status", status).Error
}

func (r *fileRepository) MarkUploaded(ctx context.Context, key string) error {
	now := time.Now()
	return r.DB.WithContext(ctx).
		Model(&models.FileRecord{}).
		Where("key = ? AND status = ?", key, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      models.StatusUploaded,
			"uploaded_at": now,
		}).Error
}
