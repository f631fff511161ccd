package forms

import "sync"

// Origin distinguishes how a change entered the cache.
//
// The scheduler must never echo hydrated state back to the server, and a user
// setting a field back to its hydrated value is still a real edit, so the
// distinction is structural (two entry points) rather than value-based.
type Origin int

const (
	OriginHydrate Origin = iota
	OriginEdit
)

// Change is delivered to subscribers on every cache mutation.
type Change struct {
	Section  string
	Origin   Origin
	Snapshot map[string]any
}

// ValueCache is the reactive field-value store for exactly one open section.
//
// Hydration enters through [ValueCache.ReplaceAll], which fires at most once
// per instance; user edits enter through [ValueCache.SetField]. Widgets read
// current values with [ValueCache.Get] and fall back to schema defaults when
// the cache holds no entry.
type ValueCache struct {
	mu       sync.Mutex
	section  string
	values   map[string]any
	touched  map[string]bool
	hydrated bool
	subs     []func(Change)
}

// NewValueCache creates an empty cache for the named section.
func NewValueCache(section string) *ValueCache {
	return &ValueCache{
		section: section,
		values:  make(map[string]any),
		touched: make(map[string]bool),
	}
}

// Section returns the section name this cache belongs to.
func (c *ValueCache) Section() string { return c.section }

// Subscribe registers fn to receive every subsequent change notification.
func (c *ValueCache) Subscribe(fn func(Change)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

// ReplaceAll installs the section's previously saved values.
//
// Only the first call per instance has any effect; a section is hydrated once
// at open and never automatically overwritten afterwards. Fields the user
// already edited before hydration resolved keep their edited value. Exactly
// one change notification is emitted regardless of how many fields arrive.
// A nil values argument still marks the cache hydrated (an empty remote
// section is a valid hydration result).
func (c *ValueCache) ReplaceAll(values map[string]any) {
	c.mu.Lock()
	if c.hydrated {
		c.mu.Unlock()
		return
	}
	c.hydrated = true

	for name, value := range values {
		if c.touched[name] {
			continue
		}
		c.values[name] = value
	}

	change := Change{Section: c.section, Origin: OriginHydrate, Snapshot: c.snapshotLocked()}
	subs := append([]func(Change){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

// SetField merges one user-edited field into the cache.
//
// The empty string is the widget-level "cleared" sentinel and is stored as
// nil, so a cleared field and a never-set field are indistinguishable
// downstream.
func (c *ValueCache) SetField(name string, value any) {
	if s, ok := value.(string); ok && s == "" {
		value = nil
	}

	c.mu.Lock()
	c.values[name] = value
	c.touched[name] = true

	change := Change{Section: c.section, Origin: OriginEdit, Snapshot: c.snapshotLocked()}
	subs := append([]func(Change){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

// Get returns the current value for name and whether the cache holds an entry for it.
func (c *ValueCache) Get(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[name]
	return v, ok
}

// Hydrated reports whether the initial hydration attempt has resolved.
//
// Renderers must not display cache-backed values before this returns true,
// to avoid flashing stale defaults that snap to hydrated values.
func (c *ValueCache) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}

// Snapshot returns a copy of the current values that never aliases internal state.
func (c *ValueCache) Snapshot() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *ValueCache) snapshotLocked() map[string]any {
	snap := make(map[string]any, len(c.values))
	for k, v := range c.values {
		snap[k] = v
	}
	return snap
}
