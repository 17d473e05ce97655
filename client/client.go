// Package client is the upload side of the broker protocol: it requests a
// scoped write credential from the broker and submits the payload straight to
// object storage, concentrating the retry/reset/single-flight rules in one
// state machine (Uploader).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go_upload_broker/apperrors"
	"go_upload_broker/models"
)

// requestCredential asks the broker for a presigned POST credential. Any
// non-200 answer (including validation rejections the client failed to catch
// locally) surfaces as a credential error.
func requestCredential(ctx context.Context, httpClient *http.Client, endpoint string, req models.UploadReq) (*models.UploadResp, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Credential("failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Credential("failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Credential("credential request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.Credential(
			fmt.Sprintf("credential endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(body)), nil)
	}

	var cred models.UploadResp
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		return nil, apperrors.Credential("failed to decode credential", err)
	}
	if cred.URL == "" || cred.Key == "" {
		return nil, apperrors.Credential("credential response missing url or key", nil)
	}
	return &cred, nil
}

// Download asks the broker for the whole object in-band.
func Download(ctx context.Context, httpClient *http.Client, endpoint string, key string) (*models.DownloadResp, error) {
	if key == "" {
		return nil, apperrors.InvalidArgument("missing object key")
	}
	payload, err := json.Marshal(models.DownloadReq{S3Key: key})
	if err != nil {
		return nil, apperrors.Upstream("failed to encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Upstream("failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Upstream("download request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream(fmt.Sprintf("download endpoint returned %d", resp.StatusCode), nil)
	}
	var out models.DownloadResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.Upstream("failed to decode download response", err)
	}
	return &out, nil
}
