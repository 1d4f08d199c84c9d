package catalog

import (
	"fmt"
	"sync"
)

// Registry indexes item templates by ID. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*ItemDef
}

// NewRegistry creates a Registry from the given defs.
//
// Postcondition: Returns an error on duplicate IDs.
func NewRegistry(defs []*ItemDef) (*Registry, error) {
	items := make(map[string]*ItemDef, len(defs))
	for _, d := range defs {
		if _, exists := items[d.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate item id %q", d.ID)
		}
		items[d.ID] = d
	}
	return &Registry{items: items}, nil
}

// Get returns the item template with the given ID.
//
// Postcondition: Returns (def, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(id string) (*ItemDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[id]
	return d, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
