package flow

// Presenter renders a single node: it subscribes to that node's record in
// the store, resolves the visual component and the effective prop set, and
// invokes the component. A presenter re-renders only when its own node's
// record identity changes or when a collection-wide input changes — never
// because another node moved. This is the central performance contract of
// the package: the coordinator owns membership, presenters own everything
// per-node.
type Presenter struct {
	id    string
	coord *Coordinator

	// Element is the host element rendered for this node, bound via
	// Coordinator.BindElement and registered with the shared observer.
	Element ElementRef

	unsub   Unsubscribe
	renders int
}

// newPresenter mounts a presenter for id: it subscribes to the node record
// (gated on record identity, since the store replaces records copy-on-write)
// and performs the initial render.
func newPresenter(c *Coordinator, id string) *Presenter {
	p := &Presenter{id: id, coord: c}
	p.unsub = Subscribe(c.store,
		func(s *Store) *Node {
			n, _ := s.Node(id)
			return n
		},
		func(a, b *Node) bool { return a == b },
		func(*Node) { p.render() },
	)
	p.render()
	return p
}

// ID returns the node id this presenter renders.
func (p *Presenter) ID() string { return p.id }

// Props resolves the node's current record into a complete prop set. The
// second return is false when the node no longer exists in the store: a
// transient window between the coordinator's id-list update and this lookup,
// not an error.
//
// Resolution is pure with respect to store state: calling Props twice
// without an intervening store write yields identical values.
func (p *Presenter) Props() (NodeProps, bool) {
	c := p.coord

	node, ok := c.store.Node(p.id)
	if !ok {
		return NodeProps{}, false
	}

	typeName := node.Type
	if typeName == "" {
		typeName = DefaultNodeType
	}

	flags := c.flags
	pos := ClampPosition(positionOrZero(node.ComputedPosition), c.extent)

	origin := c.origin
	if node.Origin != nil {
		origin = *node.Origin
	}
	w, h := nodeSize(node)

	source := node.SourcePosition
	if source == "" {
		source = HandleBottom
	}
	target := node.TargetPosition
	if target == "" {
		target = HandleTop
	}

	className := node.ClassName
	if className == "" {
		className = c.nodeClassName
	}

	return NodeProps{
		ID:        node.ID,
		Type:      typeName,
		ClassName: className,
		Style:     node.Style,
		Data:      node.Data,

		Width:  node.Width,
		Height: node.Height,

		Position:       pos,
		RenderPosition: ApplyOrigin(pos, w, h, origin),
		Initialized:    node.Initialized(),

		SourcePosition: source,
		TargetPosition: target,

		Hidden:   node.Hidden,
		Selected: node.Selected,

		Draggable:   resolveCapability(node.Draggable, flags.NodesDraggable),
		Selectable:  resolveCapability(node.Selectable, flags.ElementsSelectable),
		Connectable: resolveCapability(node.Connectable, flags.NodesConnectable),
		Focusable:   resolveCapability(node.Focusable, flags.NodesFocusable),

		Observer: c.ensureObserver(),

		DragHandle: node.DragHandle,
		ZIndex:     node.Z(),
		IsParent:   node.IsParent(),

		NoDragClassName: c.noDragClassName,
		NoPanClassName:  c.noPanClassName,

		CanvasID:            c.canvasID,
		AriaLabel:           node.AriaLabel,
		DisableKeyboardA11y: c.disableKeyboardA11y,

		OnClick:       p.handler(EventClick),
		OnDoubleClick: p.handler(EventDoubleClick),
		OnContextMenu: p.handler(EventContextMenu),
		OnMouseEnter:  p.handler(EventMouseEnter),
		OnMouseLeave:  p.handler(EventMouseLeave),
		OnMouseMove:   p.handler(EventMouseMove),
	}, true
}

// render resolves the props and invokes the visual component. A missing node
// record renders nothing. An unknown node type is reported through the error
// callback and falls back to the default component, so the render itself
// never fails.
func (p *Presenter) render() {
	props, ok := p.Props()
	if !ok {
		return
	}
	component := p.coord.registry.Resolve(props.Type, p.coord.errors)
	component.Draw(props)
	p.renders++
	p.coord.markDirty()
}

// handler returns an event handler pre-bound to this node and kind. The
// pointer position is forwarded as-is; the id always wins over whatever the
// caller put in the event.
func (p *Presenter) handler(kind EventKind) EventHandler {
	return func(e NodeEvent) {
		e.Kind = kind
		e.ID = p.id
		p.coord.events.Emit(e)
	}
}

// close tears the presenter down: the node subscription is removed and the
// bound element (if any) is unregistered from the shared observer.
func (p *Presenter) close() {
	if p.unsub != nil {
		p.unsub()
	}
	if m := p.Element.Get(); m != nil {
		if obs := p.coord.observerInstance(); obs != nil {
			obs.Unobserve(m)
		}
	}
}

// resolveCapability picks the node's explicit tri-state value when present,
// else the collection-wide default.
func resolveCapability(explicit *bool, collectionDefault bool) bool {
	if explicit == nil {
		return collectionDefault
	}
	return *explicit
}
