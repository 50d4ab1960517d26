// Package cart maintains the canonical set of cart lines for one visitor.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

// Item is one cart line: a product configured at a specific size. Price is
// the final computed price for the configured quantity batch.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	ImageURL string  `json:"image_url"`
}

// Key identifies a cart line. Two lines with the same product id but
// different sizes are distinct.
type Key struct {
	ID   string
	Size string
}

func (i Item) key() Key {
	return Key{ID: i.ID, Size: i.Size}
}

// Snapshot is the state handed to subscribers after every mutation.
type Snapshot struct {
	Items     []Item
	Total     float64
	UnitCount int
}

// Subscriber receives a snapshot synchronously before the mutating call
// returns.
type Subscriber func(Snapshot)

// Store is an explicitly-owned cart container. It persists its full item
// list after every mutation and rehydrates from storage on construction;
// corrupt or missing stored state yields an empty cart, never an error.
type Store struct {
	mu          sync.Mutex
	items       []Item
	persister   Persister
	key         string
	logger      *slog.Logger
	subscribers map[int]Subscriber
	nextSubID   int
}

// NewStore builds a cart store bound to a storage key and loads any
// previously persisted state.
func NewStore(ctx context.Context, persister Persister, key string, logger *slog.Logger) *Store {
	s := &Store{
		persister:   persister,
		key:         key,
		logger:      logger,
		subscribers: map[int]Subscriber{},
	}
	s.rehydrate(ctx)
	return s
}

type persistedState struct {
	Items []Item `json:"items"`
}

func (s *Store) rehydrate(ctx context.Context) {
	if s.persister == nil {
		return
	}

	data, err := s.persister.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && s.logger != nil {
			s.logger.Warn("cart state load failed, starting empty", "key", s.key, "error", err)
		}
		return
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		if s.logger != nil {
			s.logger.Warn("cart state corrupt, starting empty", "key", s.key, "error", err)
		}
		return
	}

	for _, item := range state.Items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		s.items = append(s.items, item)
	}
}

// Subscribe registers a subscriber and returns its removal function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// AddItem appends a new line, or merges quantities into the existing line
// matching the item's (id, size) key. No duplicate keys coexist afterwards.
func (s *Store) AddItem(ctx context.Context, item Item) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].key() == item.key() {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	return s.commit(ctx)
}

// RemoveItem deletes the line matching (id, size). Removing an absent line
// is a no-op.
func (s *Store) RemoveItem(ctx context.Context, id, size string) error {
	key := Key{ID: id, Size: size}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].key() == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return s.commit(ctx)
}

// UpdateQuantity sets the matching line's quantity, clamping non-positive
// input to 1. A decrement never removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id, size string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	key := Key{ID: id, Size: size}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].key() == key {
			s.items[i].Quantity = quantity
			break
		}
	}
	return s.commit(ctx)
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	return s.commit(ctx)
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// Total is the exact sum of price x quantity over all lines, recomputed on
// every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.items)
}

// UnitCount is the total number of units across all lines (the badge value).
func (s *Store) UnitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return unitCountOf(s.items)
}

// Snapshot returns the full derived state in one consistent read.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:     copyItems(s.items),
		Total:     totalOf(s.items),
		UnitCount: unitCountOf(s.items),
	}
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// commit persists the item list and notifies subscribers. Called with the
// lock held; releases it.
func (s *Store) commit(ctx context.Context) error {
	snapshot := Snapshot{
		Items:     copyItems(s.items),
		Total:     totalOf(s.items),
		UnitCount: unitCountOf(s.items),
	}
	subscribers := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	var saveErr error
	if s.persister != nil {
		data, err := json.Marshal(persistedState{Items: snapshot.Items})
		if err == nil {
			saveErr = s.persister.Save(ctx, s.key, data)
		} else {
			saveErr = err
		}
		if saveErr != nil && s.logger != nil {
			s.logger.Error("cart state save failed", "key", s.key, "error", saveErr)
		}
	}

	for _, fn := range subscribers {
		fn(snapshot)
	}

	return saveErr
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func totalOf(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func unitCountOf(items []Item) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
