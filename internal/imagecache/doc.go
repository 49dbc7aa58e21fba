// Package imagecache preloads the images referenced by feed items.
//
// # Slots
//
// Each item has one image slot (single-image feeds) or two (dual-image
// feeds). A slot starts pending and settles exactly once, as loaded or
// failed; later results for a settled slot are ignored. An empty URL settles
// as failed without touching the network, and every load carries a timeout,
// so no slot stays pending forever.
//
// # Readiness
//
// Prime loads the first item's slots before anything else. Only when all of
// them have settled does Ready flip to true and the remaining items start
// loading in the background, bounded by Options.Concurrency. The UI hides
// every image until Ready so that bulk preloading never flashes a
// half-loaded panel.
//
// # Waiting
//
// Wait blocks until an item's slots settle, kicking off the load if nobody
// has started it. Delete releases waiters with ErrEvicted, so dismissing an
// item never leaves a goroutine parked on it. Changes delivers a coalesced
// signal after any settle, readiness flip or delete.
package imagecache
