package registry

import "sync"

// Registry is a keyed store for extension points populated from init().
// A locked key rejects further writes until UnlockForTesting is called.
type Registry struct {
	mu     sync.RWMutex
	values map[string]any
	locked map[string]bool
}

// GlobalRegistry holds process-wide extension registrations.
var GlobalRegistry = New()

func New() *Registry {
	return &Registry{values: make(map[string]any), locked: make(map[string]bool)}
}

// SetGlobal stores v under key. It is a no-op when key is locked.
func (r *Registry) SetGlobal(key string, v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locked[key] {
		return false
	}
	r.values[key] = v
	return true
}

func (r *Registry) GetGlobal(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

func (r *Registry) Lock(key string) {
	r.mu.Lock()
	r.locked[key] = true
	r.mu.Unlock()
}

func (r *Registry) IsLocked(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked[key]
}

// UnlockForTesting reopens a locked key.
func (r *Registry) UnlockForTesting(key string) {
	r.mu.Lock()
	delete(r.locked, key)
	r.mu.Unlock()
}
