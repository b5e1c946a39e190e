package flow

import "sync"

// ElementRef is a reference to a host element, set when the host binds the
// rendered element for a node and read later by the measurement plumbing.
// Thread-safe.
type ElementRef struct {
	mu    sync.RWMutex
	value Measurable
}

// Set stores the element in this ref.
func (r *ElementRef) Set(m Measurable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = m
}

// Get returns the referenced element, or nil if not yet bound.
func (r *ElementRef) Get() Measurable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// IsSet returns true if the ref holds a non-nil element.
func (r *ElementRef) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value != nil
}
