package items

import (
	"slices"

	"deal-notifier-go/pkg/models"
)

// Store accumulates the deals found during the current run in arrival order.
// Items are never removed; Reset starts a fresh collection.
type Store struct {
	items []models.Item
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Append adds an item at the end of the collection
func (s *Store) Append(item models.Item) {
	s.items = append(s.items, item)
}

// All returns the items in arrival order. The returned slice is clipped to
// its length, so later appends never write into it; callers must treat the
// elements as read-only.
func (s *Store) All() []models.Item {
	return slices.Clip(s.items)
}

// Len returns the number of items collected so far
func (s *Store) Len() int {
	return len(s.items)
}

// Reset drops every item. Views returned by All before the reset keep their
// contents.
func (s *Store) Reset() {
	s.items = nil
}
