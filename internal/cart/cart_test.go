package cart

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) (*Store, *MemoryPersister) {
	t.Helper()
	persister := NewMemoryPersister()
	return NewStore(context.Background(), persister, StateKey("test"), nil), persister
}

func TestStore_AddItemMergesOnIDAndSize(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 2, Price: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 3, Price: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line after merge, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", items[0].Quantity)
	}
	if total := store.Total(); total != 25 {
		t.Errorf("expected total 25, got %v", total)
	}
}

func TestStore_DistinctSizesAreDistinctLines(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_ = store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 1, Price: 5})
	_ = store.AddItem(ctx, Item{ID: "A", Size: "20x20", Quantity: 1, Price: 8})

	if got := store.Len(); got != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", got)
	}
}

func TestStore_UpdateQuantityClampsToOne(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_ = store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 3, Price: 5})

	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{"zero clamps to one", 0, 1},
		{"negative clamps to one", -4, 1},
		{"positive applies", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.UpdateQuantity(ctx, "A", "10x10", tt.quantity); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			items := store.Items()
			if len(items) != 1 {
				t.Fatalf("expected the line to survive, got %d lines", len(items))
			}
			if items[0].Quantity != tt.want {
				t.Errorf("expected quantity %d, got %d", tt.want, items[0].Quantity)
			}
		})
	}
}

func TestStore_RemoveItem(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_ = store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 1, Price: 5})

	if err := store.RemoveItem(ctx, "A", "20x20"); err != nil {
		t.Fatalf("removing an absent line must not error: %v", err)
	}
	if got := store.Len(); got != 1 {
		t.Fatalf("expected cart unchanged, got %d lines", got)
	}

	if err := store.RemoveItem(ctx, "A", "10x10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Len(); got != 0 {
		t.Errorf("expected empty cart, got %d lines", got)
	}
}

func TestStore_ClearThenTotal(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_ = store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 2, Price: 5})
	_ = store.AddItem(ctx, Item{ID: "B", Size: "5x5", Quantity: 1, Price: 12.5})

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total := store.Total(); total != 0 {
		t.Errorf("expected total 0 after clear, got %v", total)
	}
}

func TestStore_TotalIsRecomputed(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_ = store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 2, Price: 5})

	if total := store.Total(); total != 10 {
		t.Fatalf("expected total 10, got %v", total)
	}
	_ = store.UpdateQuantity(ctx, "A", "10x10", 4)
	if total := store.Total(); total != 20 {
		t.Errorf("expected total 20 after update, got %v", total)
	}
}

func TestStore_SubscribersNotifiedBeforeReturn(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var seen []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) {
		seen = append(seen, s)
	})

	_ = store.AddItem(ctx, Item{ID: "A", Size: "10x10", Quantity: 2, Price: 5})
	if len(seen) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(seen))
	}
	if seen[0].UnitCount != 2 || seen[0].Total != 10 {
		t.Errorf("unexpected snapshot: %+v", seen[0])
	}

	unsubscribe()
	_ = store.Clear(ctx)
	if len(seen) != 1 {
		t.Errorf("expected no notification after unsubscribe, got %d", len(seen))
	}
}

func TestStore_PersistsAndRehydrates(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	key := StateKey("visitor-1")

	store := NewStore(ctx, persister, key, nil)
	_ = store.AddItem(ctx, Item{ID: "A", Name: "Rótulo", Size: "10x10", Quantity: 2, Price: 5})
	_ = store.AddItem(ctx, Item{ID: "B", Size: "5x5", Quantity: 1, Price: 3})

	reloaded := NewStore(ctx, persister, key, nil)
	if got := reloaded.Len(); got != 2 {
		t.Fatalf("expected 2 lines after rehydration, got %d", got)
	}
	if total := reloaded.Total(); total != 13 {
		t.Errorf("expected total 13 after rehydration, got %v", total)
	}
}

func TestStore_CorruptStateFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	key := StateKey("visitor-2")

	if err := persister.Save(ctx, key, []byte("{not json")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := NewStore(ctx, persister, key, nil)
	if got := store.Len(); got != 0 {
		t.Errorf("expected empty cart from corrupt state, got %d lines", got)
	}
}

func TestStore_RehydrationClampsQuantities(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	key := StateKey("visitor-3")

	_ = persister.Save(ctx, key, []byte(`{"items":[{"id":"A","size":"10x10","quantity":0,"price":5}]}`))

	store := NewStore(ctx, persister, key, nil)
	items := store.Items()
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Errorf("expected quantity clamped to 1, got %+v", items)
	}
}

func TestStateKey(t *testing.T) {
	if got := StateKey(""); got != "shopping-cart" {
		t.Errorf("expected fixed store name, got %q", got)
	}
	if got := StateKey("abc"); got != "shopping-cart:abc" {
		t.Errorf("expected namespaced key, got %q", got)
	}
}
