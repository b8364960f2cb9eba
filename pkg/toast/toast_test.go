package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)}
}

func TestStateAt(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want State
	}{
		{0, Visible},
		{2999 * time.Millisecond, Visible},
		{3 * time.Second, Fading},
		{5999 * time.Millisecond, Fading},
		{6 * time.Second, Removed},
		{time.Minute, Removed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StateAt(tt.age), "age %v", tt.age)
	}
}

func TestOpacity(t *testing.T) {
	assert.Equal(t, 1.0, Opacity(time.Second))
	assert.Equal(t, 1.0, Opacity(3*time.Second))
	assert.InDelta(t, 0.5, Opacity(4500*time.Millisecond), 1e-9)
	assert.InDelta(t, 0.1, Opacity(5700*time.Millisecond), 1e-9)
	assert.Equal(t, 0.0, Opacity(6*time.Second))
}

func TestTracker_Lifecycle(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(clock.Now)

	created := tr.Observe([]snapshot.Message{{ID: 1, Text: "You watered the crop."}})
	require.Equal(t, 1, created)
	require.Len(t, tr.Active(), 1)
	assert.Equal(t, Visible, tr.Active()[0].State)

	clock.Advance(3 * time.Second)
	assert.True(t, tr.Sweep())
	require.Len(t, tr.Active(), 1)
	assert.Equal(t, Fading, tr.Active()[0].State)

	clock.Advance(1500 * time.Millisecond)
	assert.False(t, tr.Sweep())
	assert.InDelta(t, 0.5, tr.Opacity(tr.Active()[0]), 1e-9)

	clock.Advance(1500 * time.Millisecond)
	assert.True(t, tr.Sweep())
	assert.Empty(t, tr.Active())
}

func TestTracker_SeenIDsNeverToastAgain(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(clock.Now)
	msgs := []snapshot.Message{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}

	assert.Equal(t, 2, tr.Observe(msgs))
	assert.Equal(t, 0, tr.Observe(msgs))

	clock.Advance(10 * time.Second)
	tr.Sweep()
	require.Empty(t, tr.Active())

	assert.Equal(t, 0, tr.Observe(msgs), "ids stay seen after their toasts are removed")
	assert.Equal(t, 1, tr.Observe(append(msgs, snapshot.Message{ID: 3, Text: "c", IsError: true})))
	require.Len(t, tr.Active(), 1)
	assert.True(t, tr.Active()[0].IsError)
	assert.True(t, tr.Seen(1))
	assert.False(t, tr.Seen(4))
}

func TestTracker_IndependentAges(t *testing.T) {
	clock := newFakeClock()
	tr := NewTracker(clock.Now)

	tr.Observe([]snapshot.Message{{ID: 1}})
	clock.Advance(4 * time.Second)
	tr.Observe([]snapshot.Message{{ID: 1}, {ID: 2}})
	tr.Sweep()

	active := tr.Active()
	require.Len(t, active, 2)
	assert.Equal(t, Fading, active[0].State)
	assert.Equal(t, Visible, active[1].State)

	clock.Advance(2 * time.Second)
	tr.Sweep()
	active = tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, 2, active[0].ID)
}
