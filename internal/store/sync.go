package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/report"
)

// DefaultDebounce is the quiet period after the last mutation before
// a remote submission fires.
const DefaultDebounce = 2 * time.Second

// SnapshotFunc returns the current inspection snapshot, including the
// balloon list, at the moment the sync fires. Reading the state at
// fire time rather than at schedule time guarantees the submission
// carries only the final positions of a burst of edits.
type SnapshotFunc func() report.Snapshot

// Syncer debounces remote submissions: every mutation resets a timer,
// and one submission happens once the timer elapses undisturbed. The
// timer is stopped and restarted under a single lock so concurrent
// timers can never run.
type Syncer struct {
	remote   Remote
	cache    *Cache
	snapshot SnapshotFunc
	delay    time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending bool

	// notify is set once at wiring time, before any submission runs.
	notify func(error)
}

// NewSyncer creates a syncer with the given debounce delay.
func NewSyncer(remote Remote, cache *Cache, delay time.Duration, snapshot SnapshotFunc) *Syncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Syncer{
		remote:   remote,
		cache:    cache,
		snapshot: snapshot,
		delay:    delay,
		timeout:  10 * time.Second,
	}
}

// OnResult registers a callback invoked with the outcome of each
// remote submission, nil on success. Submissions skipped for an
// incomplete report do not report a result.
func (s *Syncer) OnResult(fn func(error)) { s.notify = fn }

// NoteChange records a mutation: the balloon list is written to the
// local cache synchronously and the remote debounce timer restarts.
func (s *Syncer) NoteChange(balloons []annotation.Balloon) {
	snap := s.snapshot()
	s.cache.SaveQuiet(snap.InspectionID, snap.ItemID, balloons)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = true
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Syncer) fire() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.mu.Unlock()

	s.submit()
}

// Flush cancels any pending debounce and submits immediately. Used
// when leaving edit mode (explicit save) and when navigating away, so
// a stale timer never fires after the user has moved on.
func (s *Syncer) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = false
	s.mu.Unlock()

	s.submit()
}

// Close flushes any pending submission.
func (s *Syncer) Close() {
	s.mu.Lock()
	hadPending := s.pending
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = false
	s.mu.Unlock()

	if hadPending {
		s.submit()
	}
}

// submit pushes the current snapshot, best effort. Snapshots missing
// required context fields are skipped rather than creating a partial
// remote record; failures are logged and dropped, the next mutation's
// debounce cycle retries naturally.
func (s *Syncer) submit() {
	snap := s.snapshot()
	if !snap.Ready() {
		log.Debug().
			Str("inspection", snap.InspectionID).
			Msg("sync skipped, report fields incomplete")
		return
	}
	snap.SavedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.remote.Save(ctx, snap)
	if err != nil {
		log.Warn().Err(err).
			Str("inspection", snap.InspectionID).
			Msg("remote sync failed")
	}
	if s.notify != nil {
		s.notify(err)
	}
}

// LoadAnnotations reconciles the remote snapshot with the local cache
// for one (inspection, item) pair. A present, non-empty remote
// snapshot wins and overwrites the cache; a "not found" leaves the
// cache as-is. There is no merge: edits are single-user in practice.
func LoadAnnotations(ctx context.Context, remote Remote, cache *Cache, inspectionID, itemID string) report.Snapshot {
	snap, err := remote.Load(ctx, inspectionID)
	switch {
	case err == nil && len(snap.Balloons) > 0:
		cache.SaveQuiet(inspectionID, itemID, snap.Balloons)
		return snap
	case err == nil:
		// Remote record exists but has no balloons: keep its report
		// fields, fall through to the cached balloon list.
	case errors.Is(err, ErrNotFound):
		snap = report.Snapshot{InspectionID: inspectionID, ItemID: itemID}
	default:
		log.Warn().Err(err).Str("inspection", inspectionID).Msg("remote load failed, using local cache")
		snap = report.Snapshot{InspectionID: inspectionID, ItemID: itemID}
	}

	balloons, err := cache.Load(inspectionID, itemID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Str("inspection", inspectionID).Msg("annotation cache read failed")
	}
	snap.Balloons = balloons
	return snap
}
