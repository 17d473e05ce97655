package client

import (
	"context"
	"sync"

	"go_upload_broker/models"
	"go_upload_broker/policy"
)

// State of the upload state machine. Transitions:
//
//	Idle -> Validating -> RequestingCredential -> Transferring -> Completed
//	                 \________________\_______________\--> Failed
//
// Reset lands in Idle from anywhere.
type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StateRequestingCredential State = "requesting_credential"
	StateTransferring         State = "transferring"
	StateCompleted            State = "completed"
	StateFailed               State = "failed"
)

// Uploader drives one upload at a time through validate -> credential ->
// transfer. Start is single-flight: while a credential request or transfer is
// in flight, further Start calls are no-ops. Callbacks fire on the I/O path
// and must not block.
type Uploader struct {
	cfg Config

	// OnProgress, OnComplete and OnError are optional observers. Set them
	// before the first Start; they are not synchronized against mutation.
	OnProgress ProgressFunc
	OnComplete func(key string)
	OnError    func(err error)

	mu      sync.Mutex
	state   State
	attempt int // generation counter; Reset bumps it to orphan the in-flight attempt
}

func NewUploader(cfg Config) *Uploader {
	return &Uploader{
		cfg:   cfg.withDefaults(),
		state: StateIdle,
	}
}

// State reports the current machine state.
func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Reset returns the machine to Idle from any state. It is idempotent and
// deliberately fires no callbacks: it abandons interest in the in-flight
// attempt's outcome rather than failing it. A network operation already
// started is not aborted, but its result is discarded.
func (u *Uploader) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attempt++
	u.state = StateIdle
}

// Start runs one upload attempt to its terminal state. It returns nil on
// Completed, the terminal error on Failed, and nil immediately when another
// attempt holds the machine (single-flight) or when Reset abandoned this
// attempt mid-chain. Outcomes are also delivered via OnComplete/OnError.
func (u *Uploader) Start(ctx context.Context, req models.UploadReq, data []byte) error {
	u.mu.Lock()
	if u.state == StateRequestingCredential || u.state == StateTransferring {
		u.mu.Unlock()
		return nil
	}
	gen := u.attempt
	u.state = StateValidating
	u.mu.Unlock()

	// fail fast, before any network call
	if err := policy.Validate(req, u.cfg.Policy); err != nil {
		return u.fail(gen, err)
	}

	if !u.advance(gen, StateRequestingCredential) {
		return nil
	}
	cred, err := requestCredential(ctx, u.cfg.HTTPClient, u.cfg.BaseURL+u.cfg.UploadPath, req)
	if err != nil {
		return u.fail(gen, err)
	}

	if !u.advance(gen, StateTransferring) {
		return nil
	}
	if err := Transfer(ctx, u.cfg.HTTPClient, data, cred, u.progressFor(gen)); err != nil {
		return u.fail(gen, err)
	}

	u.complete(gen, cred.Key)
	return nil
}

// Download fetches a previously uploaded object back through the broker. It
// does not touch the upload state machine.
func (u *Uploader) Download(ctx context.Context, key string) (*models.DownloadResp, error) {
	return Download(ctx, u.cfg.HTTPClient, u.cfg.BaseURL+u.cfg.DownloadPath, key)
}

// advance moves to the next state unless Reset orphaned this attempt.
func (u *Uploader) advance(gen int, next State) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.attempt != gen {
		return false
	}
	u.state = next
	return true
}

func (u *Uploader) fail(gen int, err error) error {
	u.mu.Lock()
	if u.attempt != gen {
		u.mu.Unlock()
		return nil
	}
	u.state = StateFailed
	cb := u.OnError
	u.mu.Unlock()

	if cb != nil {
		cb(err)
	}
	return err
}

func (u *Uploader) complete(gen int, key string) {
	u.mu.Lock()
	if u.attempt != gen {
		u.mu.Unlock()
		return
	}
	u.state = StateCompleted
	cb := u.OnComplete
	u.mu.Unlock()

	if cb != nil {
		cb(key)
	}
}

// progressFor gates progress delivery on the attempt still being current.
func (u *Uploader) progressFor(gen int) ProgressFunc {
	return func(percent int) {
		u.mu.Lock()
		current := u.attempt == gen
		cb := u.OnProgress
		u.mu.Unlock()
		if current && cb != nil {
			cb(percent)
		}
	}
}
