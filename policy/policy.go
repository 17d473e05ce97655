// Package policy holds the upload acceptance rules and the predicate that
// checks a declared file against them. The same predicate runs on the client
// (to avoid a wasted round trip) and on the server (authoritatively); neither
// side trusts the other's result.
package policy

import (
	"fmt"

	"go_upload_broker/apperrors"
	"go_upload_broker/models"
)

// Wildcard in AllowedTypes accepts any declared MIME type.
const Wildcard = "*"

type Policy struct {
	AllowedTypes []string
	MaxSizeBytes int64
}

// AllowsAnyType reports whether the policy carries the wildcard marker.
func (p Policy) AllowsAnyType() bool {
	for _, t := range p.AllowedTypes {
		if t == Wildcard {
			return true
		}
	}
	return false
}

func (p Policy) allowsType(fileType string) bool {
	if p.AllowsAnyType() {
		return true
	}
	for _, t := range p.AllowedTypes {
		if t == fileType {
			return true
		}
	}
	return false
}

// Validate checks a declared upload against the policy. Pure: no side effects,
// no I/O. Returns a validation error with a user-correctable message, or nil.
func Validate(req models.UploadReq, p Policy) error {
	if !p.allowsType(req.FileType) {
		return apperrors.Validation(fmt.Sprintf("unsupported type: %s", req.FileType))
	}
	if req.FileSize > p.MaxSizeBytes {
		return apperrors.Validation(fmt.Sprintf("too large: max %dMB", p.MaxSizeBytes/(1024*1024)))
	}
	return nil
}
