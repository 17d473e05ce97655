package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go_upload_broker/apperrors"
	"go_upload_broker/models"
	"go_upload_broker/policy"
)

type brokerFake struct {
	credentialCalls atomic.Int32
	transferCalls   atomic.Int32
	credentialCode  int
	transferCode    int

	// when set, the storage handler blocks here until the channel is closed
	holdTransfer chan struct{}

	server  *httptest.Server
	baseURL string
}

func newBrokerFake(t *testing.T) *brokerFake {
	t.Helper()
	b := &brokerFake{credentialCode: http.StatusOK, transferCode: http.StatusNoContent}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/files/upload", func(w http.ResponseWriter, r *http.Request) {
		b.credentialCalls.Add(1)
		if b.credentialCode != http.StatusOK {
			http.Error(w, "signing backend down", b.credentialCode)
			return
		}
		var req models.UploadReq
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(models.UploadResp{
			URL: b.baseURL + "/bucket",
			Fields: map[string]string{
				"key":          "uploads/u1/" + req.FileName,
				"Content-Type": req.FileType,
				"policy":       "signed",
			},
			Key: "uploads/u1/" + req.FileName,
		})
	})
	mux.HandleFunc("/bucket", func(w http.ResponseWriter, r *http.Request) {
		b.transferCalls.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		if b.holdTransfer != nil {
			<-b.holdTransfer
		}
		w.WriteHeader(b.transferCode)
	})

	b.server = httptest.NewServer(mux)
	b.baseURL = b.server.URL
	t.Cleanup(b.server.Close)
	return b
}

func testUploader(b *brokerFake) *Uploader {
	return NewUploader(Config{
		BaseURL: b.baseURL,
		Policy: policy.Policy{
			AllowedTypes: []string{"audio/mpeg", "application/pdf"},
			MaxSizeBytes: 1 << 20,
		},
		HTTPClient: b.server.Client(),
	})
}

func audioReq() models.UploadReq {
	return models.UploadReq{FileName: "track.mp3", FileType: "audio/mpeg", FileSize: 12}
}

func TestStartCompletesAndDeliversKey(t *testing.T) {
	b := newBrokerFake(t)
	u := testUploader(b)

	var completedKey string
	var failed error
	u.OnComplete = func(key string) { completedKey = key }
	u.OnError = func(err error) { failed = err }

	err := u.Start(context.Background(), audioReq(), []byte("audio bytes!"))
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, u.State())
	assert.Equal(t, "uploads/u1/track.mp3", completedKey)
	assert.NoError(t, failed)
	assert.Equal(t, int32(1), b.credentialCalls.Load())
	assert.Equal(t, int32(1), b.transferCalls.Load())
}

func TestStartFailsValidationBeforeAnyNetworkCall(t *testing.T) {
	b := newBrokerFake(t)
	u := testUploader(b)

	var cbErr error
	u.OnError = func(err error) { cbErr = err }

	err := u.Start(context.Background(), models.UploadReq{
		FileName: "x.exe", FileType: "application/x-msdownload", FileSize: 12,
	}, []byte("payload"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, err, cbErr, "error must reach both the return value and the callback")
	assert.Equal(t, StateFailed, u.State())
	assert.Equal(t, int32(0), b.credentialCalls.Load())
}

func TestStartFailsOnCredentialError(t *testing.T) {
	b := newBrokerFake(t)
	b.credentialCode = http.StatusInternalServerError
	u := testUploader(b)

	err := u.Start(context.Background(), audioReq(), []byte("audio bytes!"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCredential))
	assert.Equal(t, StateFailed, u.State())
	assert.Equal(t, int32(0), b.transferCalls.Load(), "transfer must not start after credential failure")
}

func TestStartFailsOnTransferError(t *testing.T) {
	b := newBrokerFake(t)
	b.transferCode = http.StatusForbidden
	u := testUploader(b)

	err := u.Start(context.Background(), audioReq(), []byte("audio bytes!"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransfer))
	assert.Equal(t, StateFailed, u.State())
}

func TestStartIsSingleFlight(t *testing.T) {
	b := newBrokerFake(t)
	b.holdTransfer = make(chan struct{})
	u := testUploader(b)

	done := make(chan error, 1)
	go func() { done <- u.Start(context.Background(), audioReq(), []byte("audio bytes!")) }()

	require.Eventually(t, func() bool { return u.State() == StateTransferring },
		2*time.Second, 5*time.Millisecond)

	// second call while a transfer is in flight is a no-op
	err := u.Start(context.Background(), audioReq(), []byte("audio bytes!"))
	assert.NoError(t, err)
	assert.Equal(t, int32(1), b.credentialCalls.Load())
	assert.Equal(t, int32(1), b.transferCalls.Load())

	close(b.holdTransfer)
	require.NoError(t, <-done)
	assert.Equal(t, StateCompleted, u.State())
}

func TestResetMidTransferSuppressesCallbacks(t *testing.T) {
	b := newBrokerFake(t)
	b.holdTransfer = make(chan struct{})
	u := testUploader(b)

	var mu sync.Mutex
	var completions, failures int
	u.OnComplete = func(string) { mu.Lock(); completions++; mu.Unlock() }
	u.OnError = func(error) { mu.Lock(); failures++; mu.Unlock() }

	done := make(chan error, 1)
	go func() { done <- u.Start(context.Background(), audioReq(), []byte("audio bytes!")) }()

	require.Eventually(t, func() bool { return u.State() == StateTransferring },
		2*time.Second, 5*time.Millisecond)

	u.Reset()
	assert.Equal(t, StateIdle, u.State())

	close(b.holdTransfer)
	require.NoError(t, <-done, "an abandoned attempt reports no outcome")

	assert.Equal(t, StateIdle, u.State(), "a finished orphan attempt must not leave Idle")
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, completions)
	assert.Zero(t, failures)
}

func TestResetIsIdempotent(t *testing.T) {
	b := newBrokerFake(t)
	u := testUploader(b)

	u.Reset()
	u.Reset()
	assert.Equal(t, StateIdle, u.State())

	// the machine is reusable after reset
	require.NoError(t, u.Start(context.Background(), audioReq(), []byte("audio bytes!")))
	assert.Equal(t, StateCompleted, u.State())
}

func TestStartAgainAfterFailure(t *testing.T) {
	b := newBrokerFake(t)
	b.transferCode = http.StatusForbidden
	u := testUploader(b)

	require.Error(t, u.Start(context.Background(), audioReq(), []byte("audio bytes!")))
	assert.Equal(t, StateFailed, u.State())

	// Failed is not a holding state; a retry may start immediately
	b.transferCode = http.StatusNoContent
	require.NoError(t, u.Start(context.Background(), audioReq(), []byte("audio bytes!")))
	assert.Equal(t, StateCompleted, u.State())
}

func TestProgressObserverSeesBoundedMonotonicValues(t *testing.T) {
	b := newBrokerFake(t)
	u := testUploader(b)

	var mu sync.Mutex
	var observed []int
	u.OnProgress = func(percent int) {
		mu.Lock()
		observed = append(observed, percent)
		mu.Unlock()
	}

	require.NoError(t, u.Start(context.Background(), audioReq(), []byte("audio bytes!")))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, observed)
	prev := 0
	for _, pct := range observed {
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
		assert.GreaterOrEqual(t, pct, prev)
		prev = pct
	}
}
