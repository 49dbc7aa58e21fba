package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/lineup/internal/feed"
)

func sampleFeed() *feed.Feed {
	return &feed.Feed{
		Items: []feed.Item{
			{ID: "E1", Name: "A"},
			{ID: "E2", Name: "B"},
			{ID: "E3", Name: "C"},
		},
		Variant:    feed.VariantDual,
		Duplicates: []string{"E2"},
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(sampleFeed(), nil)

	snap := s.Snapshot()
	if !snap.Loaded || snap.Total != 3 || snap.Remaining() != 3 {
		t.Fatalf("snapshot = %#v, want loaded with 3 items", snap)
	}
	if snap.Variant != feed.VariantDual {
		t.Fatalf("Variant = %v, want dual", snap.Variant)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	snap.Duplicates[0] = "mutated"
	if again := s.Snapshot(); !reflect.DeepEqual(again.Duplicates, []string{"E2"}) {
		t.Fatalf("Duplicates shared with caller: %v", again.Duplicates)
	}
}

func TestStore_UpdateErrorKeepsData(t *testing.T) {
	var s Store
	s.Update(sampleFeed(), nil)

	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.Remaining() != 3 {
		t.Fatalf("queue dropped on error: %d items", snap.Remaining())
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_DismissDrainsInOrder(t *testing.T) {
	var s Store
	s.Update(sampleFeed(), nil)

	var dismissed []string
	for want := 2; want >= 0; want-- {
		head, ok := s.Dismiss()
		if !ok {
			t.Fatalf("Dismiss returned false with items left")
		}
		dismissed = append(dismissed, head.ID)
		if got := s.Snapshot().Remaining(); got != want {
			t.Fatalf("Remaining = %d, want %d", got, want)
		}
	}
	if !reflect.DeepEqual(dismissed, []string{"E1", "E2", "E3"}) {
		t.Fatalf("dismiss order = %v", dismissed)
	}

	if _, ok := s.Dismiss(); ok {
		t.Fatalf("Dismiss on empty queue should report false")
	}
	if snap := s.Snapshot(); snap.Dismissed != 3 {
		t.Fatalf("Dismissed = %d, want 3", snap.Dismissed)
	}
}

func TestStore_DismissRemovesSharedIDs(t *testing.T) {
	var s Store
	s.Update(&feed.Feed{Items: []feed.Item{{ID: "E1"}, {ID: "E2"}, {ID: "E1"}}}, nil)

	if _, ok := s.Dismiss(); !ok {
		t.Fatalf("Dismiss returned false")
	}
	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Queue.IDs(), []string{"E2"}) {
		t.Fatalf("IDs = %v, want [E2]", snap.Queue.IDs())
	}
}

func TestStore_ZeroValue(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Loaded || snap.Remaining() != 0 || snap.LastError != nil {
		t.Fatalf("zero snapshot = %#v", snap)
	}
}

func TestStore_VersionIncreasesOnEveryMutation(t *testing.T) {
	var s Store
	v0 := s.Snapshot().Version

	s.Update(sampleFeed(), nil)
	v1 := s.Snapshot().Version
	if v1 <= v0 {
		t.Fatalf("Update: version %d, want > %d", v1, v0)
	}

	s.Dismiss()
	v2 := s.Snapshot().Version
	if v2 <= v1 {
		t.Fatalf("Dismiss: version %d, want > %d", v2, v1)
	}

	s.Update(nil, errors.New("boom"))
	v3 := s.Snapshot().Version
	if v3 <= v2 {
		t.Fatalf("Update error: version %d, want > %d", v3, v2)
	}

	if _, ok := (&Store{}).Dismiss(); ok {
		t.Fatalf("empty store dismissed an item")
	}
	s.Dismiss()
	s.Dismiss()
	v4 := s.Snapshot().Version
	s.Dismiss() // queue now empty
	if got := s.Snapshot().Version; got != v4 {
		t.Fatalf("no-op Dismiss changed version %d -> %d", v4, got)
	}
}
