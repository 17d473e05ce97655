package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"path"

	"go_upload_broker/apperrors"
	"go_upload_broker/models"
)

// ProgressFunc receives an integer percentage in [0,100]. It runs on the
// transfer's I/O path and must not block; completion is signaled by Transfer
// returning, not by the percentage reaching 100.
type ProgressFunc func(percent int)

// Transfer submits the payload against a write credential: the credential's
// form fields first, then the binary payload as the final field. The backend
// signals success with 204 and no body; anything else is a transfer error.
func Transfer(ctx context.Context, httpClient *http.Client, data []byte, cred *models.UploadResp, onProgress ProgressFunc) error {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, value := range cred.Fields {
		if err := w.WriteField(name, value); err != nil {
			return apperrors.Transfer("failed to build form", err)
		}
	}
	fw, err := w.CreateFormFile("file", path.Base(cred.Key))
	if err != nil {
		return apperrors.Transfer("failed to build form", err)
	}
	if _, err := fw.Write(data); err != nil {
		return apperrors.Transfer("failed to build form", err)
	}
	if err := w.Close(); err != nil {
		return apperrors.Transfer("failed to build form", err)
	}

	total := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cred.URL,
		&progressReader{r: body, total: total, onProgress: onProgress})
	if err != nil {
		return apperrors.Transfer("failed to build request", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.ContentLength = total

	resp, err := httpClient.Do(req)
	if err != nil {
		return apperrors.Transfer("transport failure", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return apperrors.Transfer(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	return nil
}

// progressReader reports round(sent/total*100) as whole percentages while the
// request body drains. Values are non-decreasing for a single transfer.
type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	last       int
	onProgress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 && pr.total > 0 && pr.onProgress != nil {
		pr.sent += int64(n)
		pct := int(math.Round(float64(pr.sent) / float64(pr.total) * 100))
		if pct > 100 {
			pct = 100
		}
		if pct != pr.last {
			pr.last = pct
			pr.onProgress(pct)
		}
	}
	return n, err
}
