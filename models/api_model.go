package models

// UploadReq is the client's declaration of what it wants to upload.
// All three fields are required; the server re-validates them against its own
// policy regardless of any client-side check.
type UploadReq struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// UploadResp is a presigned POST write credential: the target URL, the form
// fields that must accompany the payload, and the minted object key.
type UploadResp struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
	Key    string            `json:"key"`
}

type DownloadReq struct {
	S3Key    string            `json:"s3Key"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DownloadResp carries the whole object in-band. Buffer is base64 on the wire
// (encoding/json encodes []byte that way).
type DownloadResp struct {
	Buffer      []byte            `json:"buffer"`
	Size        int64             `json:"size"`
	ContentType string            `json:"contentType"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type ConfirmReq struct {
	Key string `json:"key"`
}

type ConfirmResp struct {
	Message string `json:"message"`
	Key     string `json:"key"`
	Status  string `json:"status"`
}
