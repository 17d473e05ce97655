package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"go_upload_broker/apperrors"
	"go_upload_broker/pkg/logging"
	"go_upload_broker/platform/cache"
)

// readURLCacheTTL stays below the credential's own expiry so a cached URL is
// never handed out after the backend stops honoring it.
const readURLCacheTTL = 45 * time.Minute

// ObjectPayload is a whole buffered object. The read path has no streaming;
// very large objects are out of scope.
type ObjectPayload struct {
	Bytes       []byte
	Size        int64
	ContentType string
}

type DownloadService struct {
	storageService Storage
	cacheService   cache.CacheService
	httpClient     *http.Client
	sf             singleflight.Group
}

func NewDownloadService(storageService Storage, cacheService cache.CacheService, httpClient *http.Client) *DownloadService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DownloadService{
		storageService: storageService,
		cacheService:   cacheService,
		httpClient:     httpClient,
	}
}

// SignRead returns a time-boxed read URL for an existing key, serving repeats
// from the cache and coalescing concurrent signing for the same key.
func (s *DownloadService) SignRead(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", apperrors.InvalidArgument("missing object key")
	}
	cacheKey := "readurl:" + key
	if v, ok := s.cacheService.GetCache(cacheKey); ok {
		if u := decodeCachedString(v); u != "" {
			return u, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		signedURL, err := s.storageService.PresignedDownload(ctx, key)
		if err != nil {
			return "", apperrors.Upstream("failed to sign read URL", err)
		}
		if cerr := s.cacheService.SetCache(cacheKey, signedURL, readURLCacheTTL); cerr != nil {
			logging.Logger.Error("fail to cache read URL", "error", cerr, "key", key)
		}
		return signedURL, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// FetchObject buffers the whole object plus its reported content type for
// in-band return to the caller.
func (s *DownloadService) FetchObject(ctx context.Context, key string) (*ObjectPayload, error) {
	signedURL, err := s.SignRead(ctx, key)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, apperrors.Upstream("failed to build fetch request", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		logging.Logger.Error("fail FetchObject", "error", err, "key", key)
		return nil, apperrors.Upstream("failed to fetch object", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Upstream("unexpected status fetching object", nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("failed to read object body", err)
	}

	return &ObjectPayload{
		Bytes:       body,
		Size:        int64(len(body)),
		ContentType: resp.Header.Get("Content-Type"), // may be empty
	}, nil
}

// decodeCachedString accepts either an in-memory string (L1 hit) or the raw
// JSON the redis layer hands back (L2 hit).
func decodeCachedString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	var decoded string
	if err := json.Unmarshal([]byte(s), &decoded); err == nil {
		return decoded
	}
	return s
}
