package models

import (
	"time"

	"gorm.io/gorm"
)

// FileRecord tracks the lifecycle of one issued write credential: pending on
// issuance, uploaded once the client confirms, failed if confirmation finds no
// object behind the key.
type FileRecord struct {
	Key        string     `gorm:"column:key;type:varchar(1024);primaryKey" json:"key"`
	FileName   string     `gorm:"column:file_name;type:varchar(512);not null" json:"file_name"`
	FileType   string     `gorm:"column:file_type;type:varchar(255);not null" json:"file_type"`
	FileSize   int64      `gorm:"column:file_size;type:bigint" json:"file_size"`
	Status     string     `gorm:"column:status;type:varchar(50);default:'pending';index:idx_status" json:"status"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamp" json:"created_at"`
	UploadedAt *time.Time `gorm:"column:uploaded_at;type:timestamp" json:"uploaded_at,omitempty"`
}

func (FileRecord) TableName() string {
	return "file_records"
}

const (
	StatusPending  = "pending"
	StatusUploaded = "uploaded"
	StatusFailed   = "failed"
)

func (f *FileRecord) BeforeCreate(tx *gorm.DB) error {
	if f.Status == "" {
		f.Status = StatusPending
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	return nil
}

func (f *FileRecord) IsPending() bool {
	return f.Status == StatusPending
}

// UploadTask is pushed to the work queue once an upload is confirmed, for
// downstream consumers (hashing, scanning, indexing) to pick up.
type UploadTask struct {
	Key       string    `json:"key"`
	FileName  string    `json:"file_name"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}
