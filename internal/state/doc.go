// Package state holds the queue shared between the feed loader and the UI.
//
// # Overview
//
// The loader goroutine fetches the feed once and installs it with Update.
// The UI reads Snapshot on every render and removes the head item with
// Dismiss when the operator clicks the info bar.
//
//	Loader:                        UI:
//	┌────────────────┐            ┌──────────────────┐
//	│ client.Fetch() │            │ store.Snapshot() │
//	│      ↓         │            │      ↓           │
//	│ store.Update() │───────────→│ render chart     │
//	└────────────────┘  (mutex)   │ store.Dismiss()  │
//	                              └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace the queue
//	store.Update(&feed, nil)
//	→ snapshot.Queue = queue.New(feed.Items)
//	→ snapshot.Loaded = true
//	→ snapshot.LastError = nil
//
//	// Failure: keep whatever was there, record the error
//	store.Update(nil, err)
//	→ snapshot.Queue = <unchanged>
//	→ snapshot.LastError = err
//
// # Dismiss Semantics
//
// Dismiss removes every record whose ID equals the head's ID, keeping the
// order of the survivors. On an empty queue it does nothing and reports false.
//
// # Copying
//
// queue.Queue never mutates in place, so snapshots share its backing array
// safely. The duplicate id list and error are copied.
//
// The Store is safe to use as a zero value.
package state
