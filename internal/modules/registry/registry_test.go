package registry

import (
	"fmt"
	"sync"
	"testing"

	"ridematch/internal/types"
)

func TestUpsert_ReplacesExistingRecord(t *testing.T) {
	r := New()

	first := Vehicle{ID: "veh_1", Position: types.Point{Lat: 12.97, Lng: 77.59}, Available: true, Category: "Mini", Rating: 4.2}
	if err := r.Upsert(first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := first
	second.Position = types.Point{Lat: 12.98, Lng: 77.60}
	second.Available = false
	second.Category = "Sedan"
	if err := r.Upsert(second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("expected exactly one record, got %d", r.Len())
	}
	got, ok := r.Get("veh_1")
	if !ok {
		t.Fatal("record not found after upsert")
	}
	if got != second {
		t.Fatalf("expected latest fields %+v, got %+v", second, got)
	}
}

func TestUpsert_Validation(t *testing.T) {
	tests := []struct {
		name string
		v    Vehicle
	}{
		{"empty id", Vehicle{ID: "", Position: types.Point{Lat: 0, Lng: 0}}},
		{"latitude too high", Vehicle{ID: "v", Position: types.Point{Lat: 91, Lng: 0}}},
		{"latitude too low", Vehicle{ID: "v", Position: types.Point{Lat: -91, Lng: 0}}},
		{"longitude too high", Vehicle{ID: "v", Position: types.Point{Lat: 0, Lng: 181}}},
		{"longitude too low", Vehicle{ID: "v", Position: types.Point{Lat: 0, Lng: -181}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			if err := r.Upsert(tt.v); err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if r.Len() != 0 {
				t.Fatalf("invalid vehicle must not be stored, got %d records", r.Len())
			}
		})
	}
}

func TestSnapshotAvailable_FiltersAndOrders(t *testing.T) {
	r := New()
	seed := []Vehicle{
		{ID: "veh_c", Position: types.Point{Lat: 1, Lng: 1}, Available: true},
		{ID: "veh_a", Position: types.Point{Lat: 2, Lng: 2}, Available: true},
		{ID: "veh_b", Position: types.Point{Lat: 3, Lng: 3}, Available: false},
	}
	for _, v := range seed {
		if err := r.Upsert(v); err != nil {
			t.Fatalf("upsert %s: %v", v.ID, err)
		}
	}

	snap := r.SnapshotAvailable()
	if len(snap) != 2 {
		t.Fatalf("expected 2 available vehicles, got %d", len(snap))
	}
	if snap[0].ID != "veh_a" || snap[1].ID != "veh_c" {
		t.Fatalf("snapshot not ordered by ID: %v", snap)
	}
}

func TestSnapshotAvailable_IsolatedFromLaterWrites(t *testing.T) {
	r := New()
	if err := r.Upsert(Vehicle{ID: "veh_1", Position: types.Point{Lat: 1, Lng: 1}, Available: true}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	snap := r.SnapshotAvailable()
	if err := r.Upsert(Vehicle{ID: "veh_1", Position: types.Point{Lat: 9, Lng: 9}, Available: false}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if snap[0].Position.Lat != 1 || !snap[0].Available {
		t.Fatalf("snapshot mutated by later write: %+v", snap[0])
	}
}

func TestSnapshotAvailable_Empty(t *testing.T) {
	r := New()
	if got := r.SnapshotAvailable(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %v", got)
	}
}

// TestConcurrentUpsertAndSnapshot hammers the registry from concurrent writers
// and readers; run with -race to catch torn reads.
func TestConcurrentUpsertAndSnapshot(t *testing.T) {
	r := New()
	const writers = 4
	const readers = 4
	const iterations = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				v := Vehicle{
					ID:        types.ID(fmt.Sprintf("veh_%d", i%10)),
					Position:  types.Point{Lat: float64(i % 90), Lng: float64(w)},
					Available: i%2 == 0,
				}
				if err := r.Upsert(v); err != nil {
					t.Errorf("upsert: %v", err)
					return
				}
			}
		}(w)
	}
	for g := 0; g < readers; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				for _, v := range r.SnapshotAvailable() {
					if !v.Available {
						t.Error("snapshot contains unavailable vehicle")
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	if r.Len() > 10 {
		t.Fatalf("expected at most 10 distinct records, got %d", r.Len())
	}
}
