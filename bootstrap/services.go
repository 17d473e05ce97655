package bootstrap

import (
	"net/http"

	"go_upload_broker/config"
	"go_upload_broker/policy"
	"go_upload_broker/services"
)

type Services struct {
	UploadService   *services.UploadService
	DownloadService *services.DownloadService
}

func NewServices(cfg *config.Config, repos *Repositories, infra *Infrastructure) *Services {
	res := &Services{}

	// the authoritative policy is assembled once from config
	uploadPolicy := policy.Policy{
		AllowedTypes: cfg.AllowedFileTypes,
		MaxSizeBytes: cfg.MaxFileSize,
	}

	res.UploadService = services.NewUploadService(
		repos.FileRepository, infra.Storage, infra.Queue, uploadPolicy)
	res.DownloadService = services.NewDownloadService(
		infra.Storage, infra.Cache, &http.Client{Timeout: cfg.UploadTimeout})
	return res
}
