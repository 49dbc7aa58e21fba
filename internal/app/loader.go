package app

import (
	"context"
	"log"
	"strings"

	"github.com/five82/lineup/internal/feed"
	"github.com/five82/lineup/internal/imagecache"
	"github.com/five82/lineup/internal/state"
)

// StartLoader fetches the feed once in the background, installs it in the
// store and starts image preloading. It returns immediately.
func StartLoader(ctx context.Context, store *state.Store, client feed.Fetcher, cache *imagecache.Cache) {
	go func() {
		_ = load(ctx, store, client, cache)
	}()
}

func load(ctx context.Context, store *state.Store, client feed.Fetcher, cache *imagecache.Cache) error {
	f, err := client.Fetch(ctx)
	if err != nil {
		store.Update(nil, err)
		log.Printf("feed load failed: %v", err)
		return err
	}
	if len(f.Duplicates) > 0 {
		log.Printf("dropped duplicate ids: %s", strings.Join(f.Duplicates, ", "))
	}
	log.Printf("loaded %d items (%s image variant)", len(f.Items), f.Variant)

	store.Update(&f, nil)
	cache.Prime(ctx, f)
	return nil
}
