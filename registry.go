package flow

import (
	"fmt"
	"sync"

	"github.com/agnivade/levenshtein"
)

// NodeComponent is the external visual component invoked with a fully
// resolved prop set. Implementations draw onto whatever surface the host
// owns; flow never inspects the result.
type NodeComponent interface {
	Draw(props NodeProps)
}

// ComponentFunc adapts a plain function to the NodeComponent interface.
type ComponentFunc func(props NodeProps)

// Draw calls f.
func (f ComponentFunc) Draw(props NodeProps) { f(props) }

// Registry maps node type names to visual components. A Registry always
// contains an entry for DefaultNodeType; lookups for unknown names fall back
// to it.
type Registry struct {
	mu    sync.RWMutex
	types map[string]NodeComponent
}

// NewRegistry creates a registry with def installed as the DefaultNodeType
// entry. Panics on a nil default: the fallback guarantee is the registry's
// core invariant.
func NewRegistry(def NodeComponent) *Registry {
	if def == nil {
		panic("flow: nil default component in NewRegistry")
	}
	return &Registry{types: map[string]NodeComponent{DefaultNodeType: def}}
}

// Register installs a component under the given type name, replacing any
// existing entry.
func (r *Registry) Register(name string, c NodeComponent) {
	if c == nil {
		panic(fmt.Sprintf("flow: nil component for type %q", name))
	}
	r.mu.Lock()
	r.types[name] = c
	r.mu.Unlock()
}

// Get returns the component registered under name.
func (r *Registry) Get(name string) (NodeComponent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.types[name]
	return c, ok
}

// Resolve looks up name and falls back to the DefaultNodeType entry when the
// exact key is missing, reporting the miss through errors. The returned
// component is never nil.
func (r *Registry) Resolve(name string, errors ErrorHandler) NodeComponent {
	r.mu.RLock()
	c, ok := r.types[name]
	if !ok {
		c = r.types[DefaultNodeType]
	}
	r.mu.RUnlock()

	if !ok {
		if suggestion := r.nearest(name); suggestion != "" {
			errors.report(CodeNodeTypeMissing,
				"node type %q not found; did you mean %q? falling back to %q",
				name, suggestion, DefaultNodeType)
		} else {
			errors.report(CodeNodeTypeMissing,
				"node type %q not found; falling back to %q", name, DefaultNodeType)
		}
	}
	return c
}

// nearest returns the registered type name closest to name, when close
// enough to be a plausible typo.
func (r *Registry) nearest(name string) string {
	const maxDistance = 2

	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ""
	bestDist := maxDistance + 1
	for candidate := range r.types {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best
}
