package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"go_upload_broker/apperrors"
	"go_upload_broker/models"
	"go_upload_broker/services"
)

type FileHandler struct {
	uploadService   *services.UploadService
	downloadService *services.DownloadService
}

func NewFileHandler(uploadService *services.UploadService, downloadService *services.DownloadService) *FileHandler {
	return &FileHandler{
		uploadService:   uploadService,
		downloadService: downloadService,
	}
}

// RequestUpload issues a presigned POST write credential. The declared type
// and size are re-checked against the server's policy here no matter what the
// client already validated.
func (h *FileHandler) RequestUpload(c *fiber.Ctx) error {
	var req models.UploadReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.FileName == "" || req.FileType == "" || req.FileSize <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "fileName, fileType and fileSize are required"})
	}

	res, err := h.uploadService.RequestUpload(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate presigned URL"})
	}
	return c.JSON(res)
}

// Download fetches the whole object and returns it in-band, base64-encoded.
func (h *FileHandler) Download(c *fiber.Ctx) error {
	var req models.DownloadReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.S3Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "s3Key is required"})
	}

	payload, err := h.downloadService.FetchObject(c.UserContext(), req.S3Key)
	if err != nil {
		return c.Status(apperrors.StatusOf(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Size == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "object has no bytes"})
	}

	return c.JSON(models.DownloadResp{
		Buffer:      payload.Bytes,
		Size:        payload.Size,
		ContentType: payload.ContentType,
		Metadata:    req.Metadata,
	})
}

// ConfirmUpload verifies the object landed in storage and marks the record.
func (h *FileHandler) ConfirmUpload(c *fiber.Ctx) error {
	var req models.ConfirmReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	res, err := h.uploadService.ConfirmUpload(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown key"})
		case errors.Is(err, services.ErrNotPending):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "upload already confirmed"})
		case errors.Is(err, apperrors.ErrUpstream):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm upload"})
		}
	}
	return c.JSON(res)
}
