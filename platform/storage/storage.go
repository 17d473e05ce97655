package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"go_upload_broker/config"
	"go_upload_broker/pkg/logging"
	"go_upload_broker/utils"
)

const (
	// UploadCredentialTTL bounds how long an issued write credential stays valid.
	UploadCredentialTTL = 10 * time.Minute
	// ReadCredentialTTL bounds a signed read URL.
	ReadCredentialTTL = time.Hour

	audioTypePrefix = "audio/"
)

type Service struct {
	Client      *minio.Client
	Bucket      string
	Region      string
	StorageType string
}

func InitStorageService(cfg *config.Config) (*Service, error) {
	var minioClient *minio.Client
	var err error

	// local vs s3
	switch cfg.StorageType {
	case "minio":
		minioClient, err = utils.CreateMinIOClient(cfg)
	case "s3":
		minioClient, err = utils.CreateS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.StorageType)
	}
	if err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}

	ss := &Service{
		Client:      minioClient,
		Bucket:      cfg.BucketName,
		Region:      cfg.BucketRegion,
		StorageType: cfg.StorageType,
	}
	if err := ss.EnsureBucketExists(); err != nil {
		logging.Logger.Error("fail InitStorageService", "error", err)
		return nil, err
	}
	logging.Logger.Info("Storage service initialized",
		"type", cfg.StorageType,
		"bucket", cfg.BucketName,
		"region", cfg.BucketRegion,
	)
	return ss, nil
}

func (ss *Service) EnsureBucketExists() error {
	ctx := context.Background()
	exists, err := ss.Client.BucketExists(ctx, ss.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = ss.Client.MakeBucket(ctx, ss.Bucket, minio.MakeBucketOptions{Region: ss.Region})
	if err != nil {
		if ss.StorageType == "s3" {
			logging.Logger.Warn("Could not create S3 bucket (might exist or no permission)",
				"bucket", ss.Bucket, "error", err)
			return nil
		}
		return err
	}
	logging.Logger.Info("Bucket created successfully", "bucket", ss.Bucket)
	return nil
}

// PresignedUpload mints a scoped write credential for the given key. The
// embedded conditions are chosen here, never by the client: a size range of
// [0, maxSizeBytes] and, for audio declarations, a Content-Type prefix match
// so any audio/* submission passes; every other type is pinned exactly. The
// storage backend enforces these at submission time.
func (ss *Service) PresignedUpload(ctx context.Context, key, fileType string, maxSizeBytes int64) (string, map[string]string, error) {
	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(ss.Bucket); err != nil {
		return "", nil, err
	}
	if err := policy.SetKey(key); err != nil {
		return "", nil, err
	}
	if err := policy.SetExpires(time.Now().UTC().Add(UploadCredentialTTL)); err != nil {
		return "", nil, err
	}
	if err := policy.SetContentLengthRange(0, maxSizeBytes); err != nil {
		return "", nil, err
	}
	if strings.HasPrefix(fileType, audioTypePrefix) {
		if err := policy.SetContentTypeStartsWith(audioTypePrefix); err != nil {
			return "", nil, err
		}
	} else {
		if err := policy.SetContentType(fileType); err != nil {
			return "", nil, err
		}
	}

	postURL, formData, err := ss.Client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate presigned POST: %w", err)
	}
	// The starts-with condition leaves the bare prefix in the form data;
	// the submitted field must still carry the declared type.
	formData["Content-Type"] = fileType
	return postURL.String(), formData, nil
}

// PresignedDownload mints a read-only URL for an existing object.
func (ss *Service) PresignedDownload(ctx context.Context, key string) (string, error) {
	presignedURL, err := ss.Client.PresignedGetObject(ctx, ss.Bucket, key, ReadCredentialTTL, nil)
	if err != nil {
		logging.Logger.Error("fail PresignedDownload", "error", err, "key", key)
		return "", err
	}
	return presignedURL.String(), nil
}

func (ss *Service) Exists(ctx context.Context, key string) (bool, error) {
	_, err := ss.Client.StatObject(ctx, ss.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
