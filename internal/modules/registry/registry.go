// README: In-memory vehicle registry with consistent snapshot reads.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"ridematch/internal/types"
)

var ErrInvalidVehicle = errors.New("invalid vehicle")

// Registry is the only shared mutable state in the engine. Writers replace
// whole records under the write lock; readers get copied slices, never
// references into the map.
type Registry struct {
	mu       sync.RWMutex
	vehicles map[types.ID]Vehicle
}

func New() *Registry {
	return &Registry{vehicles: make(map[types.ID]Vehicle)}
}

// Upsert stores or replaces the record for v.ID atomically. First insert and
// update are the same operation.
func (r *Registry) Upsert(v Vehicle) error {
	if v.ID == "" {
		return fmt.Errorf("%w: empty vehicle id", ErrInvalidVehicle)
	}
	if !v.Position.Valid() {
		return fmt.Errorf("%w: coordinates out of range (%.4f, %.4f)", ErrInvalidVehicle, v.Position.Lat, v.Position.Lng)
	}
	r.mu.Lock()
	r.vehicles[v.ID] = v
	r.mu.Unlock()
	return nil
}

// Get returns the stored record for id.
func (r *Registry) Get(id types.ID) (Vehicle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	return v, ok
}

// SnapshotAvailable returns a copy of every available vehicle at a single
// point in time, ordered by ID so downstream passes are reproducible.
func (r *Registry) SnapshotAvailable() []Vehicle {
	r.mu.RLock()
	out := make([]Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		if v.Available {
			out = append(out, v)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the total number of records, available or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vehicles)
}
