package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/lineup/internal/feed"
	"github.com/five82/lineup/internal/queue"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Version     uint64 // bumped on every store mutation
	Queue       queue.Queue
	Variant     feed.Variant
	Loaded      bool // the feed has been fetched successfully
	Total       int  // items in the feed as loaded
	Dismissed   int
	Duplicates  []string
	LastUpdated time.Time
	LastError   error
}

// Remaining returns the number of items left in the queue.
func (s Snapshot) Remaining() int {
	return s.Queue.Len()
}

// Store coordinates the loader goroutine and the UI.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update installs a freshly loaded feed. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(f *feed.Feed, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Version++
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		return
	}
	if f == nil {
		return
	}

	s.snapshot.Queue = queue.New(f.Items)
	s.snapshot.Variant = f.Variant
	s.snapshot.Loaded = true
	s.snapshot.Total = len(f.Items)
	s.snapshot.Dismissed = 0
	s.snapshot.Duplicates = cloneStrings(f.Duplicates)
	s.snapshot.LastError = nil
}

// Dismiss removes the head item, and every record sharing its ID, from the
// queue. It returns the removed head; false means the queue was empty.
func (s *Store) Dismiss() (feed.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	head, ok := s.snapshot.Queue.PeekFirst()
	if !ok {
		return feed.Item{}, false
	}
	s.snapshot.Queue = s.snapshot.Queue.RemoveAndAdvance(head.ID)
	s.snapshot.Dismissed++
	s.snapshot.Version++
	return head, true
}

// Snapshot returns a copy of the current snapshot. A snapshot with a lower
// Version than one already seen is stale.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Duplicates = cloneStrings(s.snapshot.Duplicates)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}
