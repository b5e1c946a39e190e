package flow

import "sync"

// Measurable is a host element whose rendered size can be read back. The
// element carries the id of the node it renders, the same way a DOM node
// carries it in a data attribute.
type Measurable interface {
	// NodeID returns the id of the node this element renders.
	NodeID() string

	// BoundingSize returns the element's current rendered width and height.
	BoundingSize() (width, height float64)
}

// SizeObserver watches host elements and delivers batches of changed ones to
// the callback it was constructed with. It is the measurement half of the
// dimension feedback loop: the coordinator folds each delivered batch into
// the store as one transaction.
type SizeObserver interface {
	// Observe starts watching the element.
	Observe(m Measurable)

	// Unobserve stops watching the element.
	Unobserve(m Measurable)

	// Disconnect stops watching everything. Batches delivered by the host
	// after Disconnect are dropped.
	Disconnect()
}

// ObserverFactory constructs a SizeObserver delivering batches to callback.
// A nil factory means the runtime has no measurement capability: the
// coordinator skips observer construction entirely and authored dimensions
// remain the only size source.
type ObserverFactory func(callback func(batch []Measurable)) SizeObserver

// ManualObserver is a SizeObserver driven explicitly by the host: call Flush
// whenever elements have been (re)measured. Useful for hosts without an
// asynchronous measurement primitive, and for tests.
type ManualObserver struct {
	mu           sync.Mutex
	callback     func([]Measurable)
	observed     map[string]Measurable
	disconnected bool
}

var _ SizeObserver = (*ManualObserver)(nil)

// NewManualObserver creates a manual observer delivering to callback.
// Pass it to a coordinator via WithObserverFactory:
//
//	var obs *flow.ManualObserver
//	factory := func(cb func([]flow.Measurable)) flow.SizeObserver {
//	    obs = flow.NewManualObserver(cb)
//	    return obs
//	}
func NewManualObserver(callback func([]Measurable)) *ManualObserver {
	return &ManualObserver{
		callback: callback,
		observed: make(map[string]Measurable),
	}
}

// Observe starts watching m, keyed by its node id.
func (o *ManualObserver) Observe(m Measurable) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disconnected || m == nil || m.NodeID() == "" {
		return
	}
	o.observed[m.NodeID()] = m
}

// Unobserve stops watching m.
func (o *ManualObserver) Unobserve(m Measurable) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m == nil {
		return
	}
	delete(o.observed, m.NodeID())
}

// Disconnect stops watching everything. Subsequent Flush calls are no-ops,
// matching the platform guarantee that in-flight measurements after
// disconnect never fire.
func (o *ManualObserver) Disconnect() {
	o.mu.Lock()
	o.disconnected = true
	o.observed = make(map[string]Measurable)
	o.mu.Unlock()
}

// Flush delivers the given elements as one measurement batch. With no
// arguments it delivers every observed element. Unobserved elements in
// targets are skipped.
func (o *ManualObserver) Flush(targets ...Measurable) {
	o.mu.Lock()
	if o.disconnected {
		o.mu.Unlock()
		return
	}
	var batch []Measurable
	if len(targets) == 0 {
		batch = make([]Measurable, 0, len(o.observed))
		for _, m := range o.observed {
			batch = append(batch, m)
		}
	} else {
		batch = make([]Measurable, 0, len(targets))
		for _, m := range targets {
			if m == nil {
				continue
			}
			if _, ok := o.observed[m.NodeID()]; ok {
				batch = append(batch, m)
			}
		}
	}
	callback := o.callback
	o.mu.Unlock()

	if len(batch) > 0 && callback != nil {
		callback(batch)
	}
}

// ChannelObserver forwards measurement batches from a channel to the
// observer callback until disconnected. It suits hosts that produce
// measurements on a background goroutine; delivery hops through the channel
// so the callback ordering matches send ordering.
type ChannelObserver struct {
	mu           sync.Mutex
	observed     map[string]Measurable
	stopCh       chan struct{}
	disconnected bool
}

var _ SizeObserver = (*ChannelObserver)(nil)

// NewChannelObserver creates an observer consuming batches from ch. Elements
// in a batch that are not currently observed are filtered out before the
// callback fires.
func NewChannelObserver(ch <-chan []Measurable, callback func([]Measurable)) *ChannelObserver {
	o := &ChannelObserver{
		observed: make(map[string]Measurable),
		stopCh:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-o.stopCh:
				return
			case batch, ok := <-ch:
				if !ok {
					return
				}
				if filtered := o.filter(batch); len(filtered) > 0 {
					callback(filtered)
				}
			}
		}
	}()
	return o
}

func (o *ChannelObserver) filter(batch []Measurable) []Measurable {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disconnected {
		return nil
	}
	out := make([]Measurable, 0, len(batch))
	for _, m := range batch {
		if m == nil {
			continue
		}
		if _, ok := o.observed[m.NodeID()]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Observe starts watching m.
func (o *ChannelObserver) Observe(m Measurable) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disconnected || m == nil || m.NodeID() == "" {
		return
	}
	o.observed[m.NodeID()] = m
}

// Unobserve stops watching m.
func (o *ChannelObserver) Unobserve(m Measurable) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m == nil {
		return
	}
	delete(o.observed, m.NodeID())
}

// Disconnect stops the forwarding goroutine and drops all observed elements.
func (o *ChannelObserver) Disconnect() {
	o.mu.Lock()
	if o.disconnected {
		o.mu.Unlock()
		return
	}
	o.disconnected = true
	o.observed = make(map[string]Measurable)
	close(o.stopCh)
	o.mu.Unlock()
}
