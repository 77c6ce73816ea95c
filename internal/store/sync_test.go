package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/report"
)

// fakeRemote records saves and serves a canned snapshot.
type fakeRemote struct {
	mu       sync.Mutex
	saves    []report.Snapshot
	snapshot report.Snapshot
	loadErr  error
	saveErr  error
}

func (f *fakeRemote) Save(_ context.Context, snap report.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, snap)
	return nil
}

func (f *fakeRemote) Load(_ context.Context, _ string) (report.Snapshot, error) {
	if f.loadErr != nil {
		return report.Snapshot{}, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeRemote) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeRemote) lastSave() report.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func readySnapshot(balloons []annotation.Balloon) report.Snapshot {
	return report.Snapshot{
		InspectionID: "insp-1",
		ItemID:       "item-7",
		PartName:     "bracket",
		Material:     "AlMg3",
		Balloons:     balloons,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := testCache(t)
	balloons := []annotation.Balloon{
		annotation.NewBalloon(1, 10, 20),
		annotation.NewBalloon(2, 30, 40),
	}

	if err := c.Save("insp/1", "item 7", balloons); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := c.Load("insp/1", "item 7")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != balloons[0] || got[1] != balloons[1] {
		t.Errorf("Load = %v, want %v", got, balloons)
	}
}

func TestCacheLoadMissingKey(t *testing.T) {
	c := testCache(t)
	if _, err := c.Load("nope", "nothing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDebounceCoalescesRapidChanges(t *testing.T) {
	remote := &fakeRemote{}
	cache := testCache(t)

	var current []annotation.Balloon
	s := NewSyncer(remote, cache, 30*time.Millisecond, func() report.Snapshot {
		return readySnapshot(current)
	})

	// Two rapid moves of the same balloon inside the quiet period
	// must produce exactly one submission with the final position.
	b := annotation.NewBalloon(1, 40, 40)
	current = []annotation.Balloon{b}
	s.NoteChange(current)

	b.X, b.Y = 60, 60
	current = []annotation.Balloon{b}
	s.NoteChange(current)

	time.Sleep(10 * time.Millisecond)
	if remote.saveCount() != 0 {
		t.Fatal("submission fired before the quiet period elapsed")
	}

	time.Sleep(60 * time.Millisecond)
	if got := remote.saveCount(); got != 1 {
		t.Fatalf("saves = %d, want 1", got)
	}
	saved := remote.lastSave()
	if len(saved.Balloons) != 1 || saved.Balloons[0].X != 60 {
		t.Errorf("submitted %v, want final position x=60", saved.Balloons)
	}
}

func TestSyncSkippedWhenFieldsIncomplete(t *testing.T) {
	remote := &fakeRemote{}
	cache := testCache(t)

	s := NewSyncer(remote, cache, 10*time.Millisecond, func() report.Snapshot {
		return report.Snapshot{InspectionID: "insp-1", ItemID: "item-7"} // no part name, no material
	})

	s.NoteChange([]annotation.Balloon{annotation.NewBalloon(1, 50, 50)})
	time.Sleep(50 * time.Millisecond)

	if got := remote.saveCount(); got != 0 {
		t.Errorf("saves = %d, want 0 for incomplete report", got)
	}
	// The local cache write still happened.
	if _, err := cache.Load("insp-1", "item-7"); err != nil {
		t.Errorf("local cache missing after skipped sync: %v", err)
	}
}

func TestFlushSubmitsImmediatelyAndCancelsTimer(t *testing.T) {
	remote := &fakeRemote{}
	cache := testCache(t)

	current := []annotation.Balloon{annotation.NewBalloon(1, 50, 50)}
	s := NewSyncer(remote, cache, time.Hour, func() report.Snapshot {
		return readySnapshot(current)
	})

	s.NoteChange(current)
	s.Flush()

	if got := remote.saveCount(); got != 1 {
		t.Fatalf("saves = %d, want 1 after flush", got)
	}

	// The cancelled timer must not fire a second submission.
	time.Sleep(30 * time.Millisecond)
	if got := remote.saveCount(); got != 1 {
		t.Errorf("saves = %d after wait, want still 1", got)
	}
}

func TestCloseFlushesPendingOnly(t *testing.T) {
	remote := &fakeRemote{}
	cache := testCache(t)

	current := []annotation.Balloon{annotation.NewBalloon(1, 50, 50)}
	s := NewSyncer(remote, cache, time.Hour, func() report.Snapshot {
		return readySnapshot(current)
	})

	s.Close()
	if got := remote.saveCount(); got != 0 {
		t.Errorf("idle close submitted %d times", got)
	}

	s.NoteChange(current)
	s.Close()
	if got := remote.saveCount(); got != 1 {
		t.Errorf("saves = %d, want 1 after close with pending change", got)
	}
}

func TestSyncResultCallback(t *testing.T) {
	remote := &fakeRemote{}
	cache := testCache(t)

	current := []annotation.Balloon{annotation.NewBalloon(1, 50, 50)}
	s := NewSyncer(remote, cache, time.Hour, func() report.Snapshot {
		return readySnapshot(current)
	})

	var results []error
	s.OnResult(func(err error) { results = append(results, err) })

	s.NoteChange(current)
	s.Flush()
	if len(results) != 1 || results[0] != nil {
		t.Fatalf("results = %v, want one nil result", results)
	}

	remote.mu.Lock()
	remote.saveErr = errors.New("service unavailable")
	remote.mu.Unlock()

	s.NoteChange(current)
	s.Flush()
	if len(results) != 2 || results[1] == nil {
		t.Errorf("results = %v, want a second non-nil result", results)
	}
}

func TestLoadAnnotationsRemoteWins(t *testing.T) {
	cache := testCache(t)
	local := []annotation.Balloon{annotation.NewBalloon(1, 11, 11)}
	cache.Save("insp-1", "item-7", local)

	remoteBalloons := []annotation.Balloon{
		annotation.NewBalloon(1, 70, 70),
		annotation.NewBalloon(2, 80, 80),
	}
	remote := &fakeRemote{snapshot: readySnapshot(remoteBalloons)}

	snap := LoadAnnotations(context.Background(), remote, cache, "insp-1", "item-7")
	if len(snap.Balloons) != 2 || snap.Balloons[0].X != 70 {
		t.Errorf("balloons = %v, want the remote set", snap.Balloons)
	}
	if snap.PartName != "bracket" {
		t.Errorf("report fields not taken from remote")
	}

	// The remote snapshot also overwrote the cache.
	cached, err := cache.Load("insp-1", "item-7")
	if err != nil || len(cached) != 2 {
		t.Errorf("cache = %v (%v), want overwritten with remote set", cached, err)
	}
}

func TestLoadAnnotationsFallsBackToCache(t *testing.T) {
	cache := testCache(t)
	local := []annotation.Balloon{annotation.NewBalloon(1, 11, 11)}
	cache.Save("insp-1", "item-7", local)

	remote := &fakeRemote{loadErr: ErrNotFound}
	snap := LoadAnnotations(context.Background(), remote, cache, "insp-1", "item-7")
	if len(snap.Balloons) != 1 || snap.Balloons[0].X != 11 {
		t.Errorf("balloons = %v, want the cached set", snap.Balloons)
	}
}

func TestLoadAnnotationsEmptyEverywhere(t *testing.T) {
	cache := testCache(t)
	remote := &fakeRemote{loadErr: ErrNotFound}

	snap := LoadAnnotations(context.Background(), remote, cache, "insp-9", "item-9")
	if len(snap.Balloons) != 0 {
		t.Errorf("balloons = %v, want empty", snap.Balloons)
	}
	if snap.InspectionID != "insp-9" || snap.ItemID != "item-9" {
		t.Errorf("snapshot keys not filled: %+v", snap)
	}
}
