// Package toast tracks transient notifications for new messages.
package toast

import (
	"time"

	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

const (
	VisibleFor = 3 * time.Second
	FadeFor    = 3 * time.Second

	// SweepInterval is how often the owner should call Sweep.
	SweepInterval = 100 * time.Millisecond
)

// State is a toast's place in its lifecycle.
type State int

const (
	Visible State = iota
	Fading
	Removed
)

func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case Fading:
		return "fading"
	default:
		return "removed"
	}
}

// StateAt derives the state from a toast's age.
func StateAt(age time.Duration) State {
	switch {
	case age < VisibleFor:
		return Visible
	case age < VisibleFor+FadeFor:
		return Fading
	default:
		return Removed
	}
}

// Opacity is 1 while visible, falls linearly to 0 while fading and is 0 once removed.
func Opacity(age time.Duration) float64 {
	switch StateAt(age) {
	case Visible:
		return 1
	case Fading:
		return 1 - float64(age-VisibleFor)/float64(FadeFor)
	default:
		return 0
	}
}

type Toast struct {
	ID        int
	Text      string
	IsError   bool
	CreatedAt time.Time
	State     State
}

// Age is the time since the toast was created.
func (t Toast) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}

// Tracker owns the active toasts and the set of message ids already turned
// into toasts. The seen set only grows.
type Tracker struct {
	now    func() time.Time
	seen   map[int]struct{}
	active []Toast
}

// NewTracker creates a tracker reading time from now, or time.Now when nil.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now, seen: make(map[int]struct{})}
}

// Observe creates a toast for every message whose id has not been seen
// before and returns how many were created.
func (t *Tracker) Observe(msgs []snapshot.Message) int {
	created := 0
	now := t.now()
	for _, m := range msgs {
		if _, ok := t.seen[m.ID]; ok {
			continue
		}
		t.seen[m.ID] = struct{}{}
		t.active = append(t.active, Toast{
			ID:        m.ID,
			Text:      m.Text,
			IsError:   m.IsError,
			CreatedAt: now,
			State:     Visible,
		})
		created++
	}
	return created
}

// Sweep advances every toast by its age and drops the removed ones. It
// reports whether anything changed.
func (t *Tracker) Sweep() bool {
	now := t.now()
	changed := false
	kept := t.active[:0]
	for _, toast := range t.active {
		state := StateAt(toast.Age(now))
		if state != toast.State {
			changed = true
		}
		if state == Removed {
			continue
		}
		toast.State = state
		kept = append(kept, toast)
	}
	clear(t.active[len(kept):])
	t.active = kept
	return changed
}

// Active returns the toasts currently on screen, oldest first.
func (t *Tracker) Active() []Toast {
	out := make([]Toast, len(t.active))
	copy(out, t.active)
	return out
}

// Seen reports whether a message id has already produced a toast.
func (t *Tracker) Seen(id int) bool {
	_, ok := t.seen[id]
	return ok
}

// Opacity of an active toast right now.
func (t *Tracker) Opacity(toast Toast) float64 {
	return Opacity(toast.Age(t.now()))
}
