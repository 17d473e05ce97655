package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"go_upload_broker/models"
)

type fakeStorage struct {
	mu sync.Mutex

	uploadCalls   int
	lastKey       string
	lastType      string
	lastMaxSize   int64
	uploadErr     error
	uploadURL     string
	uploadFields  map[string]string
	downloadCalls int
	downloadErr   error
	downloadURL   string
	exists        bool
	existsErr     error
}

func (f *fakeStorage) PresignedUpload(ctx context.Context, key, fileType string, maxSizeBytes int64) (string, map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	f.lastKey = key
	f.lastType = fileType
	f.lastMaxSize = maxSizeBytes
	if f.uploadErr != nil {
		return "", nil, f.uploadErr
	}
	fields := f.uploadFields
	if fields == nil {
		fields = map[string]string{"key": key, "Content-Type": fileType, "policy": "signed"}
	}
	return f.uploadURL, fields, nil
}

func (f *fakeStorage) PresignedDownload(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadCalls++
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return f.downloadURL, nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.exists, nil
}

type fakeFileRepo struct {
	mu        sync.Mutex
	records   map[string]*models.FileRecord
	createErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{records: map[string]*models.FileRecord{}}
}

func (r *fakeFileRepo) Create(ctx context.Context, record *models.FileRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.records[record.Key] = &cp
	return nil
}

func (r *fakeFileRepo) GetByKey(ctx context.Context, key string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *record
	return &cp, nil
}

func (r *fakeFileRepo) UpdateStatus(ctx context.Context, key string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.records[key]; ok {
		record.Status = status
	}
	return nil
}

func (r *fakeFileRepo) MarkUploaded(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.records[key]; ok && record.Status == models.StatusPending {
		record.Status = models.StatusUploaded
		now := time.Now()
		record.UploadedAt = &now
	}
	return nil
}

type fakeQueue struct {
	mu     sync.Mutex
	pushed []interface{}
	err    error
}

func (q *fakeQueue) PushToQueue(queueName string, value interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pushed = append(q.pushed, value)
	return nil
}

func (q *fakeQueue) PopFromQueue(queueName string) (interface{}, error) {
	return nil, nil
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string]interface{}
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]interface{}{}}
}

func (c *fakeCache) GetCache(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *fakeCache) SetCache(key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.sets++
	return nil
}

func (c *fakeCache) DelCache(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}
