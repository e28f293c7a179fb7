package session

import (
	"log/slog"
	"sync"
	"time"
)

const DefaultPollInterval = 10 * time.Second

// Supervisor polls the session store on a fixed interval and fires the
// registered callback exactly once when an authenticated session turns
// unauthenticated. It only observes expiry caused elsewhere (logout in
// another process, storage cleared); it never expires a session itself.
type Supervisor struct {
	store    *Store
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	callback  func()
	wasAuthed bool
	stopCh    chan struct{}
}

func NewSupervisor(store *Store, interval time.Duration, logger *slog.Logger) *Supervisor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// OnSessionExpired registers the expiry callback. Only one callback exists
// at a time; registering replaces the previous one, and registering nil is
// the documented way to silence the supervisor on teardown.
func (sv *Supervisor) OnSessionExpired(cb func()) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.callback = cb
}

// Start begins polling on its own goroutine. The supervisor latches the
// current authentication state first so a client that starts logged-out
// does not fire the callback immediately.
func (sv *Supervisor) Start() {
	sv.mu.Lock()
	if sv.stopCh != nil {
		sv.mu.Unlock()
		return
	}
	sv.stopCh = make(chan struct{})
	sv.wasAuthed = sv.store.IsAuthenticated()
	stopCh := sv.stopCh
	sv.mu.Unlock()

	go func() {
		ticker := time.NewTicker(sv.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sv.tick()
			case <-stopCh:
				return
			}
		}
	}()
}

// Stop halts polling. Idempotent.
func (sv *Supervisor) Stop() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.stopCh == nil {
		return
	}
	close(sv.stopCh)
	sv.stopCh = nil
}

// tick runs one poll cycle. Exported behavior: the callback fires on the
// authenticated-to-unauthenticated transition and only on it; a repeat tick
// with no further change stays silent.
func (sv *Supervisor) tick() {
	authed := sv.store.IsAuthenticated()

	sv.mu.Lock()
	fire := sv.wasAuthed && !authed
	sv.wasAuthed = authed
	cb := sv.callback
	sv.mu.Unlock()

	if fire {
		sv.logger.Info("session no longer valid, notifying")
		if cb != nil {
			cb()
		}
	}
}
