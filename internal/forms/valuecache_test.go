package forms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValueCache(t *testing.T) {
	t.Run("SetField Normalizes Empty String To Nil", func(t *testing.T) {
		cache := NewValueCache("filter")

		cache.SetField("l_freq", "")

		v, ok := cache.Get("l_freq")
		if !ok {
			t.Fatal("expected entry for l_freq")
		}
		if v != nil {
			t.Errorf("expected nil for cleared field, got %v", v)
		}

		if snap := cache.Snapshot(); snap["l_freq"] != nil {
			t.Errorf("expected nil in snapshot, got %v", snap["l_freq"])
		}
	})

	t.Run("ReplaceAll Notifies Exactly Once", func(t *testing.T) {
		cache := NewValueCache("epochs")

		var changes []Change
		cache.Subscribe(func(ch Change) { changes = append(changes, ch) })

		cache.ReplaceAll(map[string]any{"tmin": -0.2, "tmax": 0.8, "baseline": true})

		if len(changes) != 1 {
			t.Fatalf("expected exactly one notification, got %d", len(changes))
		}
		if changes[0].Origin != OriginHydrate {
			t.Error("expected hydrate origin")
		}
	})

	t.Run("ReplaceAll Is One-Shot", func(t *testing.T) {
		cache := NewValueCache("epochs")

		cache.ReplaceAll(map[string]any{"tmin": -0.2})
		cache.ReplaceAll(map[string]any{"tmin": -0.5})

		v, _ := cache.Get("tmin")
		if v != -0.2 {
			t.Errorf("expected first hydration to win, got %v", v)
		}
	})

	t.Run("Hydration Does Not Clobber Prior Edits", func(t *testing.T) {
		// The user types before the load request resolves; the late
		// hydration fills the untouched fields only.
		cache := NewValueCache("epochs")

		cache.SetField("tmax", 0.8)
		cache.ReplaceAll(map[string]any{"tmin": -0.2, "tmax": 0.5})

		want := map[string]any{"tmin": -0.2, "tmax": 0.8}
		if diff := cmp.Diff(want, cache.Snapshot()); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Nil Hydration Marks Resolved", func(t *testing.T) {
		cache := NewValueCache("psd")

		if cache.Hydrated() {
			t.Fatal("expected fresh cache to be unhydrated")
		}

		cache.ReplaceAll(nil)

		if !cache.Hydrated() {
			t.Error("expected nil hydration to mark the cache resolved")
		}
		if len(cache.Snapshot()) != 0 {
			t.Error("expected empty snapshot")
		}
	})

	t.Run("Edit Origin Is Structural", func(t *testing.T) {
		cache := NewValueCache("filter")
		cache.ReplaceAll(map[string]any{"l_freq": 4.0})

		var origins []Origin
		cache.Subscribe(func(ch Change) { origins = append(origins, ch.Origin) })

		// setting a field back to its hydrated value is still an edit
		cache.SetField("l_freq", 4.0)

		if len(origins) != 1 || origins[0] != OriginEdit {
			t.Errorf("expected one edit-origin change, got %v", origins)
		}
	})

	t.Run("Notifies Every Subscriber", func(t *testing.T) {
		cache := NewValueCache("filter")

		var first, second []Origin
		cache.Subscribe(func(ch Change) { first = append(first, ch.Origin) })
		cache.Subscribe(func(ch Change) { second = append(second, ch.Origin) })

		cache.ReplaceAll(map[string]any{"l_freq": 4.0})
		cache.SetField("h_freq", 30.0)

		want := []Origin{OriginHydrate, OriginEdit}
		if diff := cmp.Diff(want, first); diff != "" {
			t.Errorf("first subscriber mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(want, second); diff != "" {
			t.Errorf("second subscriber mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Snapshot Does Not Alias", func(t *testing.T) {
		cache := NewValueCache("filter")
		cache.SetField("l_freq", 1.5)

		snap := cache.Snapshot()
		snap["l_freq"] = 99.0

		v, _ := cache.Get("l_freq")
		if v != 1.5 {
			t.Errorf("mutating a snapshot leaked into the cache: %v", v)
		}
	})
}
