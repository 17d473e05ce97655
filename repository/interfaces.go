package repository

import (
	"context"

	"go_upload_broker/models"
)

type FileRepository interface {
	Create(ctx context.Context, record *models.FileRecord) error
	GetByKey(ctx context.Context, key string) (*models.FileRecord, error)
	UpdateStatus(ctx context.Context, key string, status string) error
	MarkUploaded(ctx context.Context, key string) error
}
