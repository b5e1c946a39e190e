package flow

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/grindlemire/go-flow/internal/debug"
)

// Coordinator renders one Presenter per currently visible node id, in the
// order the store produces ids. It owns two collection-level subscriptions —
// the visible id list and the collection-wide flags — and the single shared
// size observer for the whole node set.
//
// Subscription scope is deliberately partitioned in two tiers: the
// coordinator re-runs only when list membership or a collection-wide flag
// changes, while each presenter re-runs only when its own node record
// changes. Collapsing the tiers would make every node drag re-evaluate the
// whole collection.
//
// Coordinators follow the store's threading rules: construct, mutate, and
// Close on the host's main loop.
type Coordinator struct {
	store    *Store
	registry *Registry
	errors   ErrorHandler
	events   *Events[NodeEvent]

	// Configuration (set via options).
	canvasID            string
	onlyVisible         bool
	extent              *Extent
	origin              Origin
	nodeClassName       string
	noDragClassName     string
	noPanClassName      string
	disableKeyboardA11y bool
	observerFactory     ObserverFactory

	// Cached collection flags, refreshed by the flags subscription.
	flags CollectionFlags

	presenters map[string]*Presenter
	order      []string

	// observer is the shared measurement resource: constructed at most
	// once on first need, disconnected exactly once on Close.
	observer     SizeObserver
	observerMade bool

	unsubs    []Unsubscribe
	closeOnce sync.Once
	dirty     atomic.Bool

	// listRenders counts id-list evaluations; it must stay flat while
	// individual node fields churn.
	listRenders int
}

// NewCoordinator creates a coordinator over the store and registry and
// mounts a presenter for every currently visible node. Panics on a nil store
// or registry; option errors are returned.
func NewCoordinator(store *Store, registry *Registry, opts ...CoordinatorOption) (*Coordinator, error) {
	if store == nil {
		panic("flow: nil store in NewCoordinator")
	}
	if registry == nil {
		panic("flow: nil registry in NewCoordinator")
	}

	c := &Coordinator{
		store:      store,
		registry:   registry,
		events:     NewEvents[NodeEvent](),
		presenters: make(map[string]*Presenter),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.flags = store.Flags()

	// Flags subscription: shallow value equality on the comparable flags
	// struct, so unrelated store writes never reach the presenters.
	c.unsubs = append(c.unsubs, Subscribe(store,
		func(s *Store) CollectionFlags { return s.Flags() },
		func(a, b CollectionFlags) bool { return a == b },
		func(f CollectionFlags) {
			c.flags = f
			for _, id := range c.order {
				c.presenters[id].render()
			}
		},
	))

	// Id-list subscription: fires only when membership or order changes,
	// never when a node's internal fields mutate.
	c.unsubs = append(c.unsubs, Subscribe(store,
		func(s *Store) []string { return s.VisibleNodeIDs(c.onlyVisible) },
		slices.Equal[[]string],
		func(ids []string) { c.syncPresenters(ids) },
	))

	c.syncPresenters(store.VisibleNodeIDs(c.onlyVisible))
	return c, nil
}

// syncPresenters reconciles the presenter set against the current id list
// using mark-and-sweep: new ids mount a presenter (which renders once),
// departed ids are closed, survivors are reused untouched.
func (c *Coordinator) syncPresenters(ids []string) {
	c.listRenders++
	debug.Log("Coordinator.syncPresenters: %d ids (pass %d)", len(ids), c.listRenders)

	active := make(map[string]bool, len(ids))
	for _, id := range ids {
		active[id] = true
		if _, mounted := c.presenters[id]; !mounted {
			c.presenters[id] = newPresenter(c, id)
		}
	}
	for id, p := range c.presenters {
		if !active[id] {
			p.close()
			delete(c.presenters, id)
		}
	}

	c.order = slices.Clone(ids)
	c.markDirty()
}

// Order returns the visible node ids in render order.
func (c *Coordinator) Order() []string {
	return slices.Clone(c.order)
}

// Presenter returns the mounted presenter for id.
func (c *Coordinator) Presenter(id string) (*Presenter, bool) {
	p, ok := c.presenters[id]
	return p, ok
}

// Render draws every mounted presenter in list order. Hosts that clear their
// surface each frame call this for a full repaint; between full repaints the
// subscriptions keep individual presenters current on their own.
func (c *Coordinator) Render() {
	for _, id := range c.order {
		c.presenters[id].render()
	}
}

// Events returns the interaction bus carrying every NodeEvent emitted by the
// rendered components.
func (c *Coordinator) Events() *Events[NodeEvent] { return c.events }

// BindElement associates the host element rendered for a node with its
// presenter and registers it with the shared size observer, wiring the
// node into the dimension feedback loop. No-op for unknown ids.
func (c *Coordinator) BindElement(id string, m Measurable) {
	p, ok := c.presenters[id]
	if !ok || m == nil {
		return
	}
	p.Element.Set(m)
	if obs := c.ensureObserver(); obs != nil {
		obs.Observe(m)
	}
}

// ensureObserver lazily constructs the shared observer on first need and
// memoizes the result, including the "no capability" nil result. Presenters
// share it by reference; only Close disconnects it.
func (c *Coordinator) ensureObserver() SizeObserver {
	if c.observerMade {
		return c.observer
	}
	c.observerMade = true
	if c.observerFactory == nil {
		return nil
	}
	c.observer = c.observerFactory(c.onMeasure)
	debug.Log("Coordinator.ensureObserver: observer constructed")
	return c.observer
}

// observerInstance returns the observer without constructing one.
func (c *Coordinator) observerInstance() SizeObserver {
	return c.observer
}

// onMeasure is the shared observer callback. The whole batch is staged into
// one mapping keyed by node id (last write per id wins) and flushed to the
// store in a single atomic update.
func (c *Coordinator) onMeasure(batch []Measurable) {
	changes := make(map[string]DimensionChange, len(batch))
	for _, m := range batch {
		if m == nil || m.NodeID() == "" {
			continue
		}
		changes[m.NodeID()] = DimensionChange{Element: m, ForceUpdate: true}
	}
	c.store.ApplyDimensionChanges(changes)
}

// markDirty records that rendered output changed since the last host poll.
func (c *Coordinator) markDirty() { c.dirty.Store(true) }

// CheckAndClearDirty returns whether any presenter drew since the last call
// and clears the flag. Hosts poll this to decide whether to recomposite.
func (c *Coordinator) CheckAndClearDirty() bool { return c.dirty.Swap(false) }

// Close tears the coordinator down: subscriptions are removed, presenters
// closed, and the shared observer disconnected. Safe to call more than once;
// the observer is disconnected exactly once, even when Close runs before any
// measurement ever fired.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		for _, unsub := range c.unsubs {
			unsub()
		}
		c.unsubs = nil
		for id, p := range c.presenters {
			p.close()
			delete(c.presenters, id)
		}
		c.order = nil
		if c.observer != nil {
			c.observer.Disconnect()
			c.observer = nil
		}
		debug.Log("Coordinator.Close: torn down")
	})
}
