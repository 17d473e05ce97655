package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go_upload_broker/apperrors"
	"go_upload_broker/models"
	"go_upload_broker/pkg/logging"
	"go_upload_broker/platform/cache"
	"go_upload_broker/policy"
	"go_upload_broker/repository"
	"go_upload_broker/utils"
)

// UploadTaskQueue is the redis list confirmed uploads are announced on.
const UploadTaskQueue = "upload_tasks"

// ErrNotPending is returned when a confirmation targets a record that was
// already confirmed or marked failed.
var ErrNotPending = errors.New("upload is not pending")

type UploadService struct {
	fileRepo            repository.FileRepository
	storageService      Storage
	messageQueueService cache.MessageQueue
	uploadPolicy        policy.Policy
}

func NewUploadService(
	fileRepo repository.FileRepository,
	storageService Storage,
	messageQueueService cache.MessageQueue,
	uploadPolicy policy.Policy) *UploadService {
	return &UploadService{
		fileRepo:            fileRepo,
		storageService:      storageService,
		messageQueueService: messageQueueService,
		uploadPolicy:        uploadPolicy,
	}
}

// RequestUpload validates the declared file against the server's own policy,
// mints a fresh object key and returns a scoped write credential. Validation
// runs before any backend call; a rejected request never reaches the signer.
func (s *UploadService) RequestUpload(ctx context.Context, req models.UploadReq) (*models.UploadResp, error) {
	if err := policy.Validate(req, s.uploadPolicy); err != nil {
		logging.Logger.Error("fail RequestUpload validation", "error", err, "fileName", req.FileName)
		return nil, err
	}

	key := utils.NewObjectKey(req.FileName)
	url, fields, err := s.storageService.PresignedUpload(ctx, key, req.FileType, s.uploadPolicy.MaxSizeBytes)
	if err != nil {
		logging.Logger.Error("fail PresignedUpload", "error", err, "key", key)
		return nil, apperrors.Upstream("failed to generate presigned URL", err)
	}

	record := models.FileRecord{
		Key:       key,
		FileName:  req.FileName,
		FileType:  req.FileType,
		FileSize:  req.FileSize,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.fileRepo.Create(ctx, &record); err != nil {
		logging.Logger.Error("failed to create file record", "error", err, "key", key)
		return nil, apperrors.Upstream("failed to create file record", err)
	}

	return &models.UploadResp{
		URL:    url,
		Fields: fields,
		Key:    key,
	}, nil
}

// ConfirmUpload checks the object actually landed behind the key and flips the
// record to uploaded, then announces it on the work queue.
func (s *UploadService) ConfirmUpload(ctx context.Context, req models.ConfirmReq) (*models.ConfirmResp, error) {
	if req.Key == "" {
		return nil, apperrors.InvalidArgument("missing key")
	}
	record, err := s.fileRepo.GetByKey(ctx, req.Key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		logging.Logger.Error("fail GetByKey", "error", err, "key", req.Key)
		return nil, err
	}
	if !record.IsPending() {
		return nil, ErrNotPending
	}

	ok, err := s.storageService.Exists(ctx, record.Key)
	if err != nil {
		logging.Logger.Error("fail Exists", "error", err, "key", record.Key)
		return nil, apperrors.Upstream("failed to check object", err)
	}
	if !ok {
		// the credential was issued but nothing was ever submitted against it
		if uerr := s.fileRepo.UpdateStatus(ctx, record.Key, models.StatusFailed); uerr != nil {
			logging.Logger.Error("fail UpdateStatus", "error", uerr, "key", record.Key)
		}
		return nil, apperrors.Upstream("object not found in storage", nil)
	}

	if err := s.fileRepo.MarkUploaded(ctx, record.Key); err != nil {
		logging.Logger.Error("fail MarkUploaded", "error", err, "key", record.Key)
		return nil, err
	}

	task := models.UploadTask{
		Key:       record.Key,
		FileName:  record.FileName,
		FileType:  record.FileType,
		CreatedAt: time.Now(),
	}
	if err := s.messageQueueService.PushToQueue(UploadTaskQueue, task); err != nil {
		logging.Logger.Error("fail PushToQueue", "error", err, "key", record.Key)
		return nil, err
	}

	return &models.ConfirmResp{
		Message: "Upload confirmed successfully",
		Key:     record.Key,
		Status:  models.StatusUploaded,
	}, nil
}
