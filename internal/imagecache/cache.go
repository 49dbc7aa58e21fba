package imagecache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/lineup/internal/feed"
)

const (
	defaultConcurrency = 6
	defaultTimeout     = 10 * time.Second
)

var errNoURL = errors.New("no image url")

// Options configure a Cache.
type Options struct {
	Slots       int           // image slots per item until Prime sets it from the feed
	Concurrency int           // parallel item loads during PreloadRest
	Timeout     time.Duration // per image
	Logger      *log.Logger
}

// Cache owns the image entries for every item and the load-readiness flag.
// It is created once at startup and mutated only through its methods.
type Cache struct {
	fetcher     Fetcher
	slots       int
	concurrency int
	timeout     time.Duration
	logger      *log.Logger

	mu      sync.Mutex
	entries map[string]*entry
	evicted map[string]struct{}
	ready   bool

	changes chan struct{}
}

type entry struct {
	Entry
	done   chan struct{} // closed once settled or evicted
	closed bool
}

// New creates an empty cache.
func New(fetcher Fetcher, opts Options) *Cache {
	slots := opts.Slots
	if slots < 1 {
		slots = 1
	}
	if slots > 2 {
		slots = 2
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{
		fetcher:     fetcher,
		slots:       slots,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger,
		entries:     make(map[string]*entry),
		evicted:     make(map[string]struct{}),
		changes:     make(chan struct{}, 1),
	}
}

// Prime adopts the slot count of f's variant and starts preloading. An empty
// feed marks the cache ready immediately.
func (c *Cache) Prime(ctx context.Context, f feed.Feed) {
	c.mu.Lock()
	c.slots = f.Variant.Slots()
	c.mu.Unlock()

	if len(f.Items) == 0 {
		c.setReady()
		return
	}
	c.PreloadFirst(ctx, f.Items[0], f.Items)
}

// PreloadFirst loads the images of first. Once every slot of first settled the
// readiness flag is set and the rest of all is preloaded in the background.
// It returns immediately.
func (c *Cache) PreloadFirst(ctx context.Context, first feed.Item, all []feed.Item) {
	go func() {
		if _, err := c.Wait(ctx, first); err != nil && !errors.Is(err, ErrEvicted) {
			c.logger.Printf("first item %s did not settle: %v", first.ID, err)
		}
		c.setReady()
		c.PreloadRest(ctx, all)
	}()
}

// PreloadRest loads every item not yet attempted, without blocking the caller.
func (c *Cache) PreloadRest(ctx context.Context, items []feed.Item) {
	pending := make([]feed.Item, len(items))
	copy(pending, items)

	go func() {
		var g errgroup.Group
		g.SetLimit(c.concurrency)
		for _, item := range pending {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if e, fresh := c.acquire(item.ID); fresh {
					c.load(ctx, e, item)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Wait blocks until every slot of item settled, starting its load if nobody
// has yet. It returns ErrEvicted if the entry is deleted first.
func (c *Cache) Wait(ctx context.Context, item feed.Item) (Entry, error) {
	e, fresh := c.acquire(item.ID)
	if e == nil {
		return Entry{}, ErrEvicted
	}
	if fresh {
		go c.load(ctx, e, item)
	}

	select {
	case <-e.done:
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[item.ID] != e {
		return Entry{}, ErrEvicted
	}
	return e.Entry, nil
}

// Ready reports whether the first item's images have settled.
func (c *Cache) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Lookup returns a copy of the entry for id.
func (c *Cache) Lookup(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.Entry, true
}

// Evicted reports whether id was deleted. Evicted ids never load again.
func (c *Cache) Evicted(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, gone := c.evicted[id]
	return gone
}

// Delete drops the entry for id and releases its waiters. Loads still in
// flight for id are discarded when they finish.
func (c *Cache) Delete(id string) {
	c.mu.Lock()
	e, ok := c.entries[id]
	delete(c.entries, id)
	c.evicted[id] = struct{}{}
	if ok && !e.closed {
		e.closed = true
		close(e.done)
	}
	c.mu.Unlock()
	if ok {
		c.logger.Printf("evicted images for %s", id)
	}
	c.notify()
}

// Changes delivers a signal after any slot settles, the readiness flag flips
// or an entry is deleted. Signals coalesce.
func (c *Cache) Changes() <-chan struct{} {
	return c.changes
}

// Stats summarizes the cache.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	var st Stats
	st.Entries = len(c.entries)
	for _, e := range c.entries {
		for _, s := range e.All() {
			switch s.State {
			case SlotLoaded:
				st.Loaded++
				if s.Image != nil {
					st.Bytes += s.Image.Size
				}
			case SlotFailed:
				st.Failed++
			default:
				st.Pending++
			}
		}
	}
	return st
}

// acquire returns the entry for id, creating it on the first attempt. fresh
// is true when the caller is responsible for loading it. Evicted ids yield nil.
func (c *Cache) acquire(id string) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, gone := c.evicted[id]; gone {
		return nil, false
	}
	if e, ok := c.entries[id]; ok {
		return e, false
	}
	e := &entry{
		Entry: Entry{Slots: c.slots},
		done:  make(chan struct{}),
	}
	c.entries[id] = e
	return e, true
}

func (c *Cache) load(ctx context.Context, e *entry, item feed.Item) {
	urls := []string{item.ImagePrimary, item.ImageSecondary}[:e.Slots]

	var g errgroup.Group
	for slot, url := range urls {
		g.Go(func() error {
			img, err := c.fetch(ctx, url)
			c.settle(item.ID, e, slot, img, err)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Cache) fetch(ctx context.Context, url string) (*Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errNoURL
	}
	if c.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.fetcher.Fetch(ctx, url)
}

func (c *Cache) settle(id string, e *entry, slot int, img *Image, err error) {
	c.mu.Lock()
	if c.entries[id] != e {
		c.mu.Unlock()
		return
	}
	target := &e.Primary
	if slot == 1 {
		target = &e.Secondary
	}
	if target.Settled() {
		c.mu.Unlock()
		return
	}
	if err != nil || img == nil {
		if err == nil {
			err = fmt.Errorf("empty image")
		}
		target.State = SlotFailed
		target.Err = err
	} else {
		target.State = SlotLoaded
		target.Image = img
	}
	if e.Settled() && !e.closed {
		e.closed = true
		close(e.done)
	}
	c.mu.Unlock()

	if err != nil && !errors.Is(err, errNoURL) {
		c.logger.Printf("image %s slot %d failed: %v", id, slot, err)
	}
	c.notify()
}

func (c *Cache) setReady() {
	c.mu.Lock()
	changed := !c.ready
	c.ready = true
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

func (c *Cache) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}
