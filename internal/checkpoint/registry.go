package checkpoint

import (
	"sync"

	"kdenlive-mcp/pkg/models"
)

// Registry maps labels to snapshot locations for the life of the process.
// It is injected into the Manager rather than living as a package global
// so tests stay isolated and a persistent implementation can slot in.
type Registry interface {
	Put(cp models.Checkpoint)
	Get(label string) (models.Checkpoint, bool)
	// Latest returns the most recently Put checkpoint.
	Latest() (models.Checkpoint, bool)
	Labels() []string
}

// MemoryRegistry keeps checkpoints in insertion order in memory.
type MemoryRegistry struct {
	mu    sync.Mutex
	order []string
	byLbl map[string]models.Checkpoint
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{byLbl: make(map[string]models.Checkpoint)}
}

func (r *MemoryRegistry) Put(cp models.Checkpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byLbl[cp.Label]; !exists {
		r.order = append(r.order, cp.Label)
	}
	r.byLbl[cp.Label] = cp
}

func (r *MemoryRegistry) Get(label string) (models.Checkpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.byLbl[label]
	return cp, ok
}

func (r *MemoryRegistry) Latest() (models.Checkpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return models.Checkpoint{}, false
	}
	return r.byLbl[r.order[len(r.order)-1]], true
}

func (r *MemoryRegistry) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	labels := make([]string, len(r.order))
	copy(labels, r.order)
	return labels
}
