// Package readiness tracks whether each external dependency last answered.
// The flags are informational; nothing in the query path consults them.
package readiness

import (
	"sort"
	"sync"
	"time"
)

// Well-known dependency names.
const (
	Completion = "completion"
	Store      = "store"
)

// Status is the last known state of one dependency.
type Status struct {
	Name      string    `json:"name"`
	Ready     bool      `json:"ready"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type Tracker struct {
	mu     sync.RWMutex
	now    func() time.Time
	status map[string]Status
}

// NewTracker registers names as not yet ready.
func NewTracker(names ...string) *Tracker {
	t := &Tracker{now: time.Now, status: make(map[string]Status, len(names))}
	for _, n := range names {
		t.status[n] = Status{Name: n, Detail: "not checked"}
	}
	return t
}

// Record stores the outcome of a probe or a real call. A nil Tracker is a no-op.
func (t *Tracker) Record(name string, err error) {
	if t == nil {
		return
	}
	st := Status{Name: name, Ready: err == nil, CheckedAt: t.now().UTC()}
	if err != nil {
		st.Detail = err.Error()
	}

	t.mu.Lock()
	t.status[name] = st
	t.mu.Unlock()
}

// Ready reports whether name was last seen healthy.
func (t *Tracker) Ready(name string) bool {
	if t == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status[name].Ready
}

// AllReady reports whether every tracked dependency is ready.
func (t *Tracker) AllReady() bool {
	if t == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, st := range t.status {
		if !st.Ready {
			return false
		}
	}
	return true
}

// Snapshot returns every status sorted by name.
func (t *Tracker) Snapshot() []Status {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	out := make([]Status, 0, len(t.status))
	for _, st := range t.status {
		out = append(out, st)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
