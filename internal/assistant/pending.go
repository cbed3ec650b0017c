package assistant

import (
	"fmt"
	"sync"
)

// Batch is a provisional set of extracted items awaiting confirmation.
type Batch struct {
	Items []PendingItem
}

// ItemEdit is a partial update to one pending item. Nil fields are left
// unchanged. Income items accept only an amount edit.
type ItemEdit struct {
	Name     *string
	Amount   *float64
	Category *string
	Date     *string
}

// PendingStore holds at most one live batch. A new batch replaces any prior
// unconfirmed one; the prior batch is returned so callers can surface an
// auto-cancel notice.
type PendingStore struct {
	mu    sync.Mutex
	batch *Batch
}

// NewPendingStore creates an empty store.
func NewPendingStore() *PendingStore {
	return &PendingStore{}
}

// Replace installs a new batch and returns the batch it displaced, if any.
func (s *PendingStore) Replace(items []PendingItem) *Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.batch
	s.batch = &Batch{Items: append([]PendingItem(nil), items...)}
	return prior
}

// Get returns a copy of the live batch.
func (s *PendingStore) Get() (Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batch == nil {
		return Batch{}, false
	}
	return Batch{Items: append([]PendingItem(nil), s.batch.Items...)}, true
}

// Edit applies a partial update to the item at idx (0-based).
func (s *PendingStore) Edit(idx int, edit ItemEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batch == nil {
		return fmt.Errorf("no pending batch to edit")
	}
	if idx < 0 || idx >= len(s.batch.Items) {
		return fmt.Errorf("pending item %d out of range (batch has %d items)", idx, len(s.batch.Items))
	}

	item := &s.batch.Items[idx]
	if item.ActionType == ActionIncome {
		if edit.Name != nil || edit.Category != nil || edit.Date != nil {
			return fmt.Errorf("income items accept only an amount edit")
		}
	}
	if edit.Name != nil {
		item.Name = *edit.Name
	}
	if edit.Amount != nil {
		item.Amount = *edit.Amount
	}
	if edit.Category != nil {
		item.Category = *edit.Category
	}
	if edit.Date != nil {
		item.Date = *edit.Date
	}
	return nil
}

// Clear discards the live batch and returns it, if any.
func (s *PendingStore) Clear() (Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batch == nil {
		return Batch{}, false
	}
	batch := *s.batch
	s.batch = nil
	return batch, true
}
