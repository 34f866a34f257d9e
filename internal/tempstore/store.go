package tempstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
)

// Options configure a Store. Zero values take the defaults.
type Options struct {
	// TTL after which an entry is swept even if never downloaded.
	TTL time.Duration
	// SweepInterval between background sweeps started by Start.
	SweepInterval time.Duration
	// HandleLifetime of handles from CreateDownloadHandle.
	HandleLifetime time.Duration
	// ForceRevokeDelay before the transient handle of ForceDownload is revoked.
	ForceRevokeDelay time.Duration
	// AfterSweep runs after each periodic sweep with the number removed.
	AfterSweep func(removed int)

	Now       func() time.Time
	AfterFunc func(d time.Duration, f func()) Timer
}

const (
	DefaultTTL              = 10 * time.Minute
	DefaultSweepInterval    = 2 * time.Minute
	DefaultHandleLifetime   = 5 * time.Second
	DefaultForceRevokeDelay = time.Second
)

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
	if o.HandleLifetime <= 0 {
		o.HandleLifetime = DefaultHandleLifetime
	}
	if o.ForceRevokeDelay <= 0 {
		o.ForceRevokeDelay = DefaultForceRevokeDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.AfterFunc == nil {
		o.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	return o
}

// Store keeps generated documents in memory for a short time.
type Store struct {
	opts Options

	mu      sync.Mutex
	entries map[string]*record
	handles map[string]Handle
	timers  map[string]Timer

	loopMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs an empty Store. Call Start to begin periodic sweeping.
func New(opts Options) *Store {
	return &Store{
		opts:    opts.withDefaults(),
		entries: make(map[string]*record),
		handles: make(map[string]Handle),
		timers:  make(map[string]Timer),
	}
}

// Put stores a copy of payload under a fresh id and returns the id. An
// empty contentType is detected from the payload.
func (s *Store) Put(payload []byte, filename, contentType string) string {
	now := s.opts.Now()
	if strings.TrimSpace(contentType) == "" {
		contentType = mimetype.Detect(payload).String()
	}

	s.mu.Lock()
	id := s.newIDLocked(now)
	s.entries[id] = &record{Entry: Entry{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Payload:     clone(payload),
		CreatedAt:   now,
	}}
	s.mu.Unlock()

	telemetry.Info("tempstore.put", map[string]any{
		"id":       id,
		"filename":     filename,
		"content_type": contentType,
		"size":         len(payload),
	})
	return id
}

// newIDLocked returns cv_<unix-ms>_<9 hex chars>, unique among live entries.
func (s *Store) newIDLocked(now time.Time) string {
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
		id := fmt.Sprintf("cv_%d_%s", now.UnixMilli(), suffix)
		if _, exists := s.entries[id]; !exists {
			return id
		}
	}
}

// Peek returns the entry without changing it.
func (s *Store) Peek(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return rec.snapshot(), true
}

// Retrieve returns the entry and marks it downloaded, making it eligible
// for the next sweep.
func (s *Store) Retrieve(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	rec.Downloaded = true
	return rec.snapshot(), true
}

// CreateDownloadHandle retrieves the entry and issues a handle for it.
// After HandleLifetime the handle is revoked and the entry removed.
func (s *Store) CreateDownloadHandle(id string) (Handle, bool) {
	s.mu.Lock()
	rec, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		telemetry.Warn("tempstore.handle_missing", map[string]any{"id": id})
		return Handle{}, false
	}
	rec.Downloaded = true
	h := s.issueHandleLocked(rec, s.opts.HandleLifetime, true)
	s.mu.Unlock()

	telemetry.Info("tempstore.handle_created", map[string]any{
		"id":         id,
		"expires_at": h.ExpiresAt,
	})
	return h, true
}

func (s *Store) issueHandleLocked(rec *record, lifetime time.Duration, removeEntry bool) Handle {
	h := Handle{
		Token:     uuid.NewString(),
		EntryID:   rec.ID,
		Filename:  rec.Filename,
		ExpiresAt: s.opts.Now().Add(lifetime),
	}
	s.handles[h.Token] = h
	token := h.Token
	s.timers[token] = s.opts.AfterFunc(lifetime, func() {
		s.expireHandle(token, removeEntry)
	})
	return h
}

func (s *Store) expireHandle(token string, removeEntry bool) {
	s.mu.Lock()
	h, ok := s.handles[token]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.handles, token)
	delete(s.timers, token)
	removed := false
	if removeEntry {
		if rec, ok := s.entries[h.EntryID]; ok {
			if rec.pinned > 0 {
				rec.doomed = true
			} else {
				delete(s.entries, h.EntryID)
				s.dropHandlesLocked(h.EntryID)
				removed = true
			}
		}
	}
	s.mu.Unlock()

	if removed {
		metrics.AddTempStoreEvicted(1)
	}
	telemetry.Info("tempstore.handle_revoked", map[string]any{
		"id":            h.EntryID,
		"entry_removed": removed,
	})
}

// Open resolves a live handle token to its entry without changing it.
func (s *Store) Open(token string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[token]
	if !ok {
		telemetry.Debug("tempstore.open_unknown", nil)
		return Entry{}, false
	}
	rec, ok := s.entries[h.EntryID]
	if !ok {
		return Entry{}, false
	}
	return rec.snapshot(), true
}

// revoke invalidates a handle early. The entry stays in the store.
func (s *Store) revoke(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revokeLocked(token)
}

func (s *Store) revokeLocked(token string) bool {
	if _, ok := s.handles[token]; !ok {
		return false
	}
	if t, ok := s.timers[token]; ok {
		t.Stop()
	}
	delete(s.handles, token)
	delete(s.timers, token)
	return true
}

func (s *Store) dropHandlesLocked(entryID string) {
	for token, h := range s.handles {
		if h.EntryID == entryID {
			s.revokeLocked(token)
		}
	}
}

// ForceDownload issues a transient handle for the entry and passes it to
// saver exactly once. It returns ErrNotFound, without calling saver, when the
// entry is missing or empty, and ErrSaveFailed when saver fails. The entry is
// pinned against sweeps until the save returns; it is then marked downloaded.
func (s *Store) ForceDownload(id string, saver Saver) error {
	if saver == nil {
		return fmt.Errorf("%w: no saver", ErrSaveFailed)
	}

	s.mu.Lock()
	rec, ok := s.entries[id]
	if !ok || len(rec.Payload) == 0 {
		s.mu.Unlock()
		telemetry.Warn("tempstore.force_download_missing", map[string]any{"id": id, "found": ok})
		return ErrNotFound
	}
	rec.pinned++
	h := s.issueHandleLocked(rec, s.opts.ForceRevokeDelay, false)
	size := len(rec.Payload)
	s.mu.Unlock()

	err := saver.Save(h)

	s.mu.Lock()
	rec.pinned--
	if err != nil {
		s.revokeLocked(h.Token)
		s.mu.Unlock()
		telemetry.Error("tempstore.force_download_failed", map[string]any{"id": id, "error": err.Error()})
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	rec.Downloaded = true
	removed := false
	if rec.pinned == 0 && rec.doomed && s.entries[id] == rec {
		delete(s.entries, id)
		s.dropHandlesLocked(id)
		removed = true
	}
	s.mu.Unlock()

	if removed {
		metrics.AddTempStoreEvicted(1)
	}
	telemetry.Info("tempstore.force_download", map[string]any{
		"id":       id,
		"filename": h.Filename,
		"size":     size,
	})
	return nil
}

// Remove deletes an entry and its handles.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	_, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
		s.dropHandlesLocked(id)
	}
	s.mu.Unlock()
	return ok
}

// Sweep removes entries that were downloaded or are older than TTL and
// returns how many it removed. Entries pinned by ForceDownload are kept.
func (s *Store) Sweep() int {
	now := s.opts.Now()
	s.mu.Lock()
	removed := 0
	for id, rec := range s.entries {
		if rec.pinned > 0 {
			continue
		}
		if rec.Downloaded || now.Sub(rec.CreatedAt) > s.opts.TTL {
			delete(s.entries, id)
			s.dropHandlesLocked(id)
			removed++
		}
	}
	remaining := len(s.entries)
	s.mu.Unlock()

	if removed > 0 {
		metrics.AddTempStoreEvicted(removed)
		telemetry.Info("tempstore.sweep", map[string]any{
			"removed":   removed,
			"remaining": remaining,
		})
	}
	return removed
}

// Stats reports the current contents.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	for _, rec := range s.entries {
		st.Total++
		if rec.Downloaded {
			st.Downloaded++
		}
		if st.OldestCreatedAt == nil || rec.CreatedAt.Before(*st.OldestCreatedAt) {
			created := rec.CreatedAt
			st.OldestCreatedAt = &created
		}
	}
	st.Pending = st.Total - st.Downloaded
	return st
}

// ClearAll drops every entry and handle and returns the number of entries
// removed.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	n := len(s.entries)
	for token := range s.handles {
		s.revokeLocked(token)
	}
	s.entries = make(map[string]*record)
	s.mu.Unlock()

	telemetry.Info("tempstore.clear", map[string]any{"removed": n})
	return n
}

// Start launches the periodic sweep. Calling Start on a running store is a
// no-op; a stopped store can be started again.
func (s *Store) Start(ctx context.Context) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.done != nil {
		select {
		case <-s.done:
		default:
			return
		}
	}
	if s.cancel != nil {
		s.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	go s.run(loopCtx, done)
}

// Stop halts the periodic sweep and waits for it to exit.
func (s *Store) Stop() {
	s.loopMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.loopMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the periodic sweep is active.
func (s *Store) Running() bool {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Store) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.Sweep()
			if s.opts.AfterSweep != nil {
				s.opts.AfterSweep(removed)
			}
		}
	}
}

func (r *record) snapshot() Entry {
	e := r.Entry
	e.Payload = clone(r.Payload)
	return e
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
