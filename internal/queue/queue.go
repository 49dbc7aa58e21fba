// Package queue holds the ordered sequence of items still waiting to be
// dismissed.
package queue

import "github.com/five82/lineup/internal/feed"

// Queue is an immutable ordered sequence of items. Methods never modify the
// receiver; RemoveAndAdvance returns a new Queue.
type Queue struct {
	items []feed.Item
}

// New copies items into a queue, preserving feed order.
func New(items []feed.Item) Queue {
	return Queue{items: clone(items)}
}

// Len reports the number of remaining records.
func (q Queue) Len() int {
	return len(q.items)
}

// Empty reports whether nothing is left.
func (q Queue) Empty() bool {
	return len(q.items) == 0
}

// PeekFirst returns the head record. The bool is false for an empty queue.
func (q Queue) PeekFirst() (feed.Item, bool) {
	if len(q.items) == 0 {
		return feed.Item{}, false
	}
	return q.items[0], true
}

// RemoveAndAdvance returns a queue without every record whose ID equals id.
// Survivors keep their relative order. Removing from an empty queue is a no-op.
func (q Queue) RemoveAndAdvance(id string) Queue {
	if len(q.items) == 0 {
		return q
	}
	kept := make([]feed.Item, 0, len(q.items))
	for _, item := range q.items {
		if item.ID == id {
			continue
		}
		kept = append(kept, item)
	}
	return Queue{items: kept}
}

// At returns the record at index i.
func (q Queue) At(i int) feed.Item {
	return q.items[i]
}

// IDs returns the identifiers in queue order.
func (q Queue) IDs() []string {
	ids := make([]string, len(q.items))
	for i, item := range q.items {
		ids[i] = item.ID
	}
	return ids
}

// Names returns the item names in queue order.
func (q Queue) Names() []string {
	names := make([]string, len(q.items))
	for i, item := range q.items {
		names[i] = item.Name
	}
	return names
}

func clone(items []feed.Item) []feed.Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]feed.Item, len(items))
	copy(dup, items)
	return dup
}
