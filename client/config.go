package client

import (
	"net/http"
	"time"

	"go_upload_broker/policy"
)

const (
	DefaultUploadPath   = "/api/files/upload"
	DefaultDownloadPath = "/api/files/download"
)

// Config wires an Uploader to the broker. Explicit fields win over defaults;
// the merge happens exactly once, in NewUploader, and never again per call.
type Config struct {
	// BaseURL of the broker, e.g. "https://api.example.com". Required.
	BaseURL string

	// UploadPath and DownloadPath override the broker's endpoint paths.
	UploadPath   string
	DownloadPath string

	// Policy is the client's advisory copy of the upload policy, checked
	// before any network call. The server re-checks with its own copy.
	Policy policy.Policy

	// HTTPClient used for both the credential request and the transfer.
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.UploadPath == "" {
		c.UploadPath = DefaultUploadPath
	}
	if c.DownloadPath == "" {
		c.DownloadPath = DefaultDownloadPath
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Minute}
	}
	return c
}
