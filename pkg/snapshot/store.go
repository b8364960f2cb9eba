package snapshot

import (
	"slices"
	"sync/atomic"
)

// Store owns the current snapshot. Apply is the only path that changes it.
// A Store is not safe for concurrent use; the console's event loop is its
// single writer.
type Store struct {
	current Snapshot
	commits int
}

// NewStore seeds a store with the initial snapshot.
func NewStore(initial Snapshot) *Store {
	return &Store{current: initial}
}

// Current returns the committed snapshot.
func (s *Store) Current() Snapshot {
	return s.current
}

// Commits counts the merges that changed the snapshot.
func (s *Store) Commits() int {
	return s.commits
}

// Apply merges p into the current snapshot and commits the result only when
// it differs. It reports whether the snapshot changed.
func (s *Store) Apply(p Partial) bool {
	merged := Merge(s.current, p)
	if IsDeepEqual(merged, s.current) {
		return false
	}
	s.current = merged
	s.commits++
	return true
}

// Append adds locally synthesized messages to the current message list
// through Apply.
func (s *Store) Append(msgs ...Message) bool {
	if len(msgs) == 0 {
		return false
	}
	next := slices.Concat(s.current.Messages, msgs)
	return s.Apply(Partial{Messages: next})
}

var localID atomic.Int64

// NewLocalMessage builds a message that did not come from the server. Its id
// is negative and unique for the life of the process.
func NewLocalMessage(text string, isError bool) Message {
	return Message{
		ID:      int(localID.Add(-1)),
		Text:    text,
		IsError: isError,
	}
}
