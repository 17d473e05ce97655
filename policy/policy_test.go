package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go_upload_broker/apperrors"
	"go_upload_broker/models"
)

func TestValidateWildcardAllowsAnyType(t *testing.T) {
	p := Policy{AllowedTypes: []string{Wildcard}, MaxSizeBytes: 1024}

	err := Validate(models.UploadReq{FileName: "a.bin", FileType: "application/x-whatever", FileSize: 512}, p)
	assert.NoError(t, err)
}

func TestValidateRejectsUnsupportedType(t *testing.T) {
	p := Policy{AllowedTypes: []string{"application/pdf", "audio/mpeg"}, MaxSizeBytes: 1024}

	err := Validate(models.UploadReq{FileName: "a.png", FileType: "image/png", FileSize: 10}, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestValidateRejectsOversized(t *testing.T) {
	p := Policy{AllowedTypes: []string{Wildcard}, MaxSizeBytes: 50 * 1024 * 1024}

	err := Validate(models.UploadReq{FileName: "big.mp3", FileType: "audio/mpeg", FileSize: 50*1024*1024 + 1}, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	// limit is reported in whole megabytes
	assert.Contains(t, err.Error(), "50MB")
}

func TestValidateAcceptsExactLimit(t *testing.T) {
	p := Policy{AllowedTypes: []string{"audio/mpeg"}, MaxSizeBytes: 1024}

	err := Validate(models.UploadReq{FileName: "a.mp3", FileType: "audio/mpeg", FileSize: 1024}, p)
	assert.NoError(t, err)
}

func TestValidateHasNoSideEffects(t *testing.T) {
	p := Policy{AllowedTypes: []string{"audio/mpeg"}, MaxSizeBytes: 1024}
	req := models.UploadReq{FileName: "a.mp3", FileType: "audio/mpeg", FileSize: 100}

	// same inputs, same answer, any number of times
	for i := 0; i < 3; i++ {
		assert.NoError(t, Validate(req, p))
	}
	assert.Equal(t, []string{"audio/mpeg"}, p.AllowedTypes)
}
