package app

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/five82/lineup/internal/feed"
	"github.com/five82/lineup/internal/imagecache"
	"github.com/five82/lineup/internal/state"
)

type fakeFeed struct {
	feed  feed.Feed
	err   error
	calls int
}

func (f *fakeFeed) Fetch(ctx context.Context) (feed.Feed, error) {
	f.calls++
	return f.feed, f.err
}

type okImages struct{}

func (okImages) Fetch(ctx context.Context, url string) (*imagecache.Image, error) {
	return &imagecache.Image{URL: url, Format: "png", Width: 1, Height: 1, Size: 1}, nil
}

func newCache() *imagecache.Cache {
	return imagecache.New(okImages{}, imagecache.Options{
		Timeout: time.Second,
		Logger:  log.New(io.Discard, "", 0),
	})
}

func TestLoad_Success(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	fetcher := &fakeFeed{feed: feed.Feed{
		Items: []feed.Item{
			{ID: "E1", Name: "A", ImagePrimary: "a.png", ImageSecondary: "a2.png"},
			{ID: "E2", Name: "B", ImagePrimary: "b.png", ImageSecondary: "b2.png"},
		},
		Variant:    feed.VariantDual,
		Duplicates: []string{"E2"},
	}}
	store := &state.Store{}
	cache := newCache()

	if err := load(context.Background(), store, fetcher, cache); err != nil {
		t.Fatalf("load: %v", err)
	}

	snap := store.Snapshot()
	if !snap.Loaded || snap.Total != 2 || snap.Variant != feed.VariantDual {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Duplicates) != 1 || snap.Duplicates[0] != "E2" {
		t.Fatalf("duplicates = %v", snap.Duplicates)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !cache.Ready() {
		if time.Now().After(deadline) {
			t.Fatalf("cache never became ready")
		}
		time.Sleep(5 * time.Millisecond)
	}
	entry, ok := cache.Lookup("E1")
	if !ok || entry.Slots != 2 || !entry.Loaded() {
		t.Fatalf("E1 entry = %+v, want both slots loaded", entry)
	}
}

func TestLoad_FailureIsRecordedWithoutRetry(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	boom := errors.New("boom")
	fetcher := &fakeFeed{err: boom}
	store := &state.Store{}
	cache := newCache()

	if err := load(context.Background(), store, fetcher, cache); !errors.Is(err, boom) {
		t.Fatalf("load err = %v, want boom", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.calls)
	}

	snap := store.Snapshot()
	if snap.Loaded {
		t.Fatalf("snapshot marked loaded after failure")
	}
	if !errors.Is(snap.LastError, boom) {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if cache.Ready() {
		t.Fatalf("cache primed despite feed failure")
	}
}
