package forms

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/haldane/eegx/internal/shared"
)

// recordingPatcher captures every patch the scheduler sends.
type recordingPatcher struct {
	mu      sync.Mutex
	calls   []map[string]any
	err     error
	block   chan struct{} // when set, Patch waits until the channel closes
	entered chan struct{} // signaled when Patch starts
}

func (p *recordingPatcher) Patch(ctx context.Context, section string, values map[string]any) error {
	p.mu.Lock()
	entered := p.entered
	block := p.block
	p.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, values)
	return p.err
}

func (p *recordingPatcher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *recordingPatcher) last() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return nil
	}
	return p.calls[len(p.calls)-1]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSyncScheduler(t *testing.T) {
	logger := shared.NewLogger(nil)
	const interval = 25 * time.Millisecond

	t.Run("Coalesces Edits Within One Window", func(t *testing.T) {
		patcher := &recordingPatcher{}
		cache := NewValueCache("filter")
		sched := NewSyncScheduler(patcher, "filter", interval, logger)
		sched.Bind(cache)
		defer sched.Close()

		cache.SetField("l_freq", 1.0)
		cache.SetField("l_freq", 1.2)
		cache.SetField("l_freq", 1.5)

		waitFor(t, time.Second, func() bool { return patcher.count() == 1 })

		// Quiet period: no further patches should appear.
		time.Sleep(3 * interval)
		if patcher.count() != 1 {
			t.Fatalf("expected exactly one patch, got %d", patcher.count())
		}

		want := map[string]any{"l_freq": 1.5}
		if diff := cmp.Diff(want, patcher.last()); diff != "" {
			t.Errorf("only the last snapshot in the window should be sent (-want +got):\n%s", diff)
		}
	})

	t.Run("Hydration Never Produces A Patch", func(t *testing.T) {
		patcher := &recordingPatcher{}
		cache := NewValueCache("epochs")
		sched := NewSyncScheduler(patcher, "epochs", interval, logger)
		sched.Bind(cache)
		defer sched.Close()

		cache.ReplaceAll(map[string]any{"tmin": -0.2, "tmax": 0.8})

		time.Sleep(3 * interval)
		if patcher.count() != 0 {
			t.Fatalf("hydration snapshot was echoed back: %d patches", patcher.count())
		}

		// A genuine edit after hydration still syncs.
		cache.SetField("tmax", 0.9)
		waitFor(t, time.Second, func() bool { return patcher.count() == 1 })
	})

	t.Run("Edit During Flight Re-Arms With Latest", func(t *testing.T) {
		patcher := &recordingPatcher{
			block:   make(chan struct{}),
			entered: make(chan struct{}, 1),
		}
		cache := NewValueCache("filter")
		sched := NewSyncScheduler(patcher, "filter", interval, logger)
		sched.Bind(cache)
		defer sched.Close()

		cache.SetField("h_freq", 20.0)

		// Wait until the first patch is in flight, then edit twice.
		<-patcher.entered
		cache.SetField("h_freq", 25.0)
		cache.SetField("h_freq", 30.0)
		close(patcher.block)

		waitFor(t, time.Second, func() bool { return patcher.count() == 2 })

		want := map[string]any{"h_freq": 30.0}
		if diff := cmp.Diff(want, patcher.last()); diff != "" {
			t.Errorf("re-armed patch should carry the newest snapshot (-want +got):\n%s", diff)
		}
	})

	t.Run("Failed Patch Is Dropped And Self-Heals", func(t *testing.T) {
		patcher := &recordingPatcher{err: errors.New("boom")}
		cache := NewValueCache("psd")
		sched := NewSyncScheduler(patcher, "psd", interval, logger)
		sched.Bind(cache)
		defer sched.Close()

		cache.SetField("fmin", 1.0)
		waitFor(t, time.Second, func() bool { return patcher.count() == 1 })

		// No retry without a new edit.
		time.Sleep(3 * interval)
		if patcher.count() != 1 {
			t.Fatalf("expected no automatic retry, got %d patches", patcher.count())
		}

		patcher.mu.Lock()
		patcher.err = nil
		patcher.mu.Unlock()

		cache.SetField("fmax", 40.0)
		waitFor(t, time.Second, func() bool { return patcher.count() == 2 })

		last := patcher.last()
		if last["fmin"] != 1.0 || last["fmax"] != 40.0 {
			t.Errorf("expected full latest snapshot after failure, got %v", last)
		}
	})

	t.Run("Close Clears Pending Timer", func(t *testing.T) {
		patcher := &recordingPatcher{}
		cache := NewValueCache("evoked")
		sched := NewSyncScheduler(patcher, "evoked", interval, logger)
		sched.Bind(cache)

		cache.SetField("show_sensors", true)
		sched.Close()

		time.Sleep(3 * interval)
		if patcher.count() != 0 {
			t.Fatalf("closed scheduler still patched: %d", patcher.count())
		}
	})

	t.Run("Edits After Close Are Ignored", func(t *testing.T) {
		patcher := &recordingPatcher{}
		cache := NewValueCache("evoked")
		sched := NewSyncScheduler(patcher, "evoked", interval, logger)
		sched.Bind(cache)
		sched.Close()

		cache.SetField("show_sensors", true)

		time.Sleep(3 * interval)
		if patcher.count() != 0 {
			t.Fatalf("expected no patches after close, got %d", patcher.count())
		}
	})
}
