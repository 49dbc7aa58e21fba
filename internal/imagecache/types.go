package imagecache

import "errors"

// SlotState tracks one image load.
type SlotState int

const (
	// SlotPending means the load has not been attempted or is in flight.
	SlotPending SlotState = iota
	// SlotLoaded means the image downloaded and decoded.
	SlotLoaded
	// SlotFailed means the load was attempted and failed.
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotLoaded:
		return "loaded"
	case SlotFailed:
		return "failed"
	default:
		return "pending"
	}
}

// ErrEvicted is returned by Wait when the entry was deleted before it settled.
var ErrEvicted = errors.New("image entry evicted")

// Image is a successfully loaded image.
type Image struct {
	URL    string
	Format string
	Width  int
	Height int
	Size   int64
	Data   []byte
}

// Slot is the load result for one image of an item.
type Slot struct {
	State SlotState
	Image *Image
	Err   error
}

// Settled reports whether the slot reached a final state.
func (s Slot) Settled() bool {
	return s.State != SlotPending
}

// Entry holds the image slots of one item. Slots is 1 for single-image feeds
// and 2 for dual-image feeds.
type Entry struct {
	Primary   Slot
	Secondary Slot
	Slots     int
}

// All returns the slots in use, primary first.
func (e Entry) All() []Slot {
	if e.Slots >= 2 {
		return []Slot{e.Primary, e.Secondary}
	}
	return []Slot{e.Primary}
}

// Settled reports whether every slot in use has settled.
func (e Entry) Settled() bool {
	for _, s := range e.All() {
		if !s.Settled() {
			return false
		}
	}
	return true
}

// Loaded reports whether every slot in use loaded successfully.
func (e Entry) Loaded() bool {
	for _, s := range e.All() {
		if s.State != SlotLoaded || s.Image == nil {
			return false
		}
	}
	return true
}

// Images returns the loaded images in slot order, skipping failures.
func (e Entry) Images() []*Image {
	var out []*Image
	for _, s := range e.All() {
		if s.State == SlotLoaded && s.Image != nil {
			out = append(out, s.Image)
		}
	}
	return out
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int
	Loaded  int
	Failed  int
	Pending int
	Bytes   int64
}
