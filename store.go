// The Store is the fine-grained reactive container for node records.
//
// Store wraps the node set and notifies subscriptions when the projection
// they select actually changes. This enables per-node re-renders without
// re-evaluating the whole collection.
//
// Thread Safety Rules:
//   - Read methods are safe to call from any goroutine
//   - Mutators must only be called from the host's main loop
//   - For background updates, deliver batches through a ChannelObserver
//
// Batching:
//
// Use Batch() to coalesce multiple mutations into a single notification
// sweep:
//
//	store.Batch(func() {
//	    store.UpdateNode("a", move)
//	    store.UpdateNode("b", move)
//	})  // Subscriptions are evaluated once here, not twice
package flow

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/grindlemire/go-flow/internal/debug"
)

// globalSubscriptionID generates unique subscription IDs across all stores.
var globalSubscriptionID atomic.Uint64

// Unsubscribe is a handle to remove a subscription. Call it to prevent
// future callback invocations.
type Unsubscribe func()

// subscription is a type-erased equality-gated selector registration.
// eval re-runs the selector, compares against the previous value, and
// returns the notification callback when the projection changed.
type subscription struct {
	id     uint64
	active bool
	eval   func() func()
}

// Store holds the live node set, the collection-wide flags, and the
// registered subscriptions. All mutation funnels through its methods; each
// committed mutation triggers exactly one notification sweep (deferred to
// the outermost commit while batching).
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
	flags CollectionFlags

	// culler is the host-supplied viewport predicate consulted by
	// VisibleNodeIDs when culling is requested.
	culler func(*Node) bool

	subMu sync.Mutex
	subs  []*subscription

	batchMu    sync.Mutex
	batchDepth int
	batchDirty bool
}

// NewStore creates an empty store with every interaction affordance enabled.
func NewStore() *Store {
	return &Store{
		nodes: make(map[string]*Node),
		flags: DefaultCollectionFlags(),
	}
}

// Subscribe registers an equality-gated selector on the store. The selector
// is re-evaluated after every committed mutation; fn fires only when equal
// reports that the selected projection changed.
//
// The selector must not mutate the store. fn runs synchronously on the
// committing goroutine, after the store lock is released.
//
// Example:
//
//	unsub := flow.Subscribe(store,
//	    func(s *flow.Store) int { return s.Len() },
//	    func(a, b int) bool { return a == b },
//	    func(n int) { fmt.Println("node count:", n) },
//	)
func Subscribe[T any](s *Store, selector func(*Store) T, equal func(a, b T) bool, fn func(T)) Unsubscribe {
	id := globalSubscriptionID.Add(1)
	prev := selector(s)

	sub := &subscription{id: id, active: true}
	sub.eval = func() func() {
		next := selector(s)
		if equal(prev, next) {
			return nil
		}
		prev = next
		return func() { fn(next) }
	}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		sub.active = false
		s.subMu.Unlock()
	}
}

// Batch executes fn and defers the notification sweep until fn returns.
// Nested Batch calls are supported; subscriptions are evaluated once when
// the outermost batch completes. If fn panics, batch state is cleaned up
// before the panic propagates.
func (s *Store) Batch(fn func()) {
	s.batchMu.Lock()
	s.batchDepth++
	s.batchMu.Unlock()

	defer func() {
		s.batchMu.Lock()
		s.batchDepth--
		sweep := s.batchDepth == 0 && s.batchDirty
		if sweep {
			s.batchDirty = false
		}
		s.batchMu.Unlock()
		if sweep {
			s.sweep()
		}
	}()

	fn()
}

// commit runs a notification sweep, or marks it pending when batching.
func (s *Store) commit() {
	s.batchMu.Lock()
	batching := s.batchDepth > 0
	if batching {
		s.batchDirty = true
	}
	s.batchMu.Unlock()
	if !batching {
		s.sweep()
	}
}

// sweep evaluates every active subscription and fires the changed ones.
// Inactive subscriptions are dropped here to prevent leaks from
// accumulated unsubscribed handles.
func (s *Store) sweep() {
	s.subMu.Lock()
	active := make([]*subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.active {
			active = append(active, sub)
		}
	}
	s.subs = active
	s.subMu.Unlock()

	debug.Log("Store.sweep: evaluating %d subscriptions", len(active))

	// Evaluate first, fire second: every selector observes the same
	// committed state even when an earlier callback mutates the store.
	fires := make([]func(), 0, len(active))
	for _, sub := range active {
		if f := sub.eval(); f != nil {
			fires = append(fires, f)
		}
	}
	for _, f := range fires {
		f()
	}
}

// Node returns the node record for id. The returned pointer is an immutable
// snapshot: every committed change to a node replaces its record, so pointer
// identity doubles as record identity for equality gating.
func (s *Store) Node(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of live nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// NodeIDs returns all node ids in insertion order.
func (s *Store) NodeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// VisibleNodeIDs returns the ids that should currently be rendered, in
// insertion order. When onlyVisible is true and a viewport culler is
// configured, nodes rejected by the culler are skipped. Hidden nodes stay in
// the list; the visual component receives the hidden flag and decides.
func (s *Store) VisibleNodeIDs(onlyVisible bool) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		n := s.nodes[id]
		if onlyVisible && s.culler != nil && !s.culler(n) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// SetViewportCuller installs the host's viewport-intersection predicate used
// by VisibleNodeIDs. A nil culler disables culling.
func (s *Store) SetViewportCuller(fn func(*Node) bool) {
	s.mu.Lock()
	s.culler = fn
	s.mu.Unlock()
	s.commit()
}

// Flags returns the collection-wide interaction defaults.
func (s *Store) Flags() CollectionFlags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

// SetFlags replaces the collection-wide interaction defaults.
func (s *Store) SetFlags(f CollectionFlags) {
	s.mu.Lock()
	s.flags = f
	s.mu.Unlock()
	s.commit()
}

// SetNodes replaces the entire node set, preserving the given order.
func (s *Store) SetNodes(nodes []Node) {
	s.mu.Lock()
	s.nodes = make(map[string]*Node, len(nodes))
	s.order = s.order[:0]
	for i := range nodes {
		n := nodes[i].clone()
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if _, dup := s.nodes[n.ID]; dup {
			continue
		}
		s.nodes[n.ID] = n
		s.order = append(s.order, n.ID)
	}
	s.layoutLocked()
	s.mu.Unlock()
	s.commit()
}

// AddNodes appends nodes to the set. Nodes without an ID are assigned a
// fresh uuid. Returns the ids of the added nodes in order.
func (s *Store) AddNodes(nodes ...Node) []string {
	ids := make([]string, 0, len(nodes))
	s.mu.Lock()
	for i := range nodes {
		n := nodes[i].clone()
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if _, dup := s.nodes[n.ID]; dup {
			continue
		}
		s.nodes[n.ID] = n
		s.order = append(s.order, n.ID)
		ids = append(ids, n.ID)
	}
	s.layoutLocked()
	s.mu.Unlock()
	s.commit()
	return ids
}

// RemoveNodes deletes the given ids. Unknown ids are ignored.
func (s *Store) RemoveNodes(ids ...string) {
	s.mu.Lock()
	removed := false
	for _, id := range ids {
		if _, ok := s.nodes[id]; !ok {
			continue
		}
		delete(s.nodes, id)
		removed = true
	}
	if removed {
		kept := s.order[:0]
		for _, id := range s.order {
			if _, ok := s.nodes[id]; ok {
				kept = append(kept, id)
			}
		}
		s.order = kept
		s.layoutLocked()
	}
	s.mu.Unlock()
	if removed {
		s.commit()
	}
}

// UpdateNode applies fn to a copy of the node and commits the result. The
// update is skipped when the node no longer exists. Internal layout fields
// set by fn are discarded; the layout pass owns them.
func (s *Store) UpdateNode(id string, fn func(Node) Node) {
	s.mu.Lock()
	cur, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	next := fn(*cur.clone())
	next.ID = id
	s.nodes[id] = next.clone()
	s.layoutLocked()
	s.mu.Unlock()
	s.commit()
}

// ApplyDimensionChanges folds a batch of measured sizes into the store as a
// single transaction: either every staged change is applied before the one
// notification sweep runs, or (for an empty batch) none. Last write per id
// wins within a batch by construction of the map.
func (s *Store) ApplyDimensionChanges(changes map[string]DimensionChange) {
	if len(changes) == 0 {
		return
	}
	s.mu.Lock()
	applied := false
	for id, change := range changes {
		cur, ok := s.nodes[id]
		if !ok || change.Element == nil {
			continue
		}
		w, h := change.Element.BoundingSize()
		if !change.ForceUpdate && w == cur.ComputedWidth && h == cur.ComputedHeight {
			continue
		}
		next := cur.clone()
		next.ComputedWidth = w
		next.ComputedHeight = h
		s.nodes[id] = next
		applied = true
	}
	if applied {
		s.layoutLocked()
	}
	s.mu.Unlock()
	if applied {
		debug.Log("Store.ApplyDimensionChanges: applied batch of %d", len(changes))
		s.commit()
	}
}

// layoutLocked is the store-internal layout pass. It derives each node's
// absolute position from its parent chain, flags parents, and computes the
// effective stacking order (authored zIndex, selected nodes elevated above
// their neighbors). Caller must hold mu.
func (s *Store) layoutLocked() {
	const selectedElevation = 1000

	hasChild := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		if n.ParentID != "" {
			hasChild[n.ParentID] = true
		}
	}

	for id, n := range s.nodes {
		next := n.clone()

		abs := positionOrZero(n.Position)
		seen := map[string]bool{id: true}
		for pid := n.ParentID; pid != ""; {
			parent, ok := s.nodes[pid]
			if !ok || seen[pid] {
				break
			}
			seen[pid] = true
			p := positionOrZero(parent.Position)
			abs.X += p.X
			abs.Y += p.Y
			pid = parent.ParentID
		}
		next.ComputedPosition = &abs

		next.isParent = hasChild[id]
		next.z = n.ZIndex
		if n.Selected {
			next.z += selectedElevation
		}

		// Only replace the record when the layout pass actually changed
		// it, so unrelated commits keep pointer identity stable.
		if n.ComputedPosition != nil && *n.ComputedPosition == abs &&
			n.isParent == next.isParent && n.z == next.z {
			continue
		}
		s.nodes[id] = next
	}
}
