package flow

import "fmt"

// CoordinatorOption is a functional option for configuring a Coordinator.
type CoordinatorOption func(*Coordinator) error

// WithCanvasID sets the canvas instance id components use to build
// accessibility identifiers (e.g. aria describedby targets) when one host
// page embeds several canvases.
func WithCanvasID(id string) CoordinatorOption {
	return func(c *Coordinator) error {
		c.canvasID = id
		return nil
	}
}

// WithOnlyVisibleNodes restricts rendering to nodes accepted by the store's
// viewport culler. Default is false: every non-deleted node gets a
// presenter, hidden ones included (the component receives the hidden flag).
func WithOnlyVisibleNodes(v bool) CoordinatorOption {
	return func(c *Coordinator) error {
		c.onlyVisible = v
		return nil
	}
}

// WithErrorHandler sets the callback receiving recoverable render anomalies
// such as unknown node types. The handler must not block.
func WithErrorHandler(h ErrorHandler) CoordinatorOption {
	return func(c *Coordinator) error {
		c.errors = h
		return nil
	}
}

// WithExtent clamps every node's absolute position into the given rectangle
// before rendering. Min must not exceed Max on either axis.
func WithExtent(e Extent) CoordinatorOption {
	return func(c *Coordinator) error {
		if e.Min.X > e.Max.X || e.Min.Y > e.Max.Y {
			return fmt.Errorf("extent min (%v,%v) exceeds max (%v,%v)", e.Min.X, e.Min.Y, e.Max.X, e.Max.Y)
		}
		ext := e
		c.extent = &ext
		return nil
	}
}

// WithOrigin sets the collection-wide node origin. Nodes may override it per
// record. Both axes must be in [0,1].
func WithOrigin(o Origin) CoordinatorOption {
	return func(c *Coordinator) error {
		if o.X < 0 || o.X > 1 || o.Y < 0 || o.Y > 1 {
			return fmt.Errorf("origin (%v,%v) outside [0,1]", o.X, o.Y)
		}
		c.origin = o
		return nil
	}
}

// WithObserverFactory installs the runtime's size-measurement capability.
// Without it the coordinator runs in degraded mode: no observer is
// constructed and authored dimensions are the only size source.
func WithObserverFactory(f ObserverFactory) CoordinatorOption {
	return func(c *Coordinator) error {
		c.observerFactory = f
		return nil
	}
}

// WithNodeClassName sets the class name passed to components for nodes that
// carry none of their own.
func WithNodeClassName(name string) CoordinatorOption {
	return func(c *Coordinator) error {
		c.nodeClassName = name
		return nil
	}
}

// WithNoDragClassName sets the class name the host's drag recognizer treats
// as a drag exclusion zone inside node elements.
func WithNoDragClassName(name string) CoordinatorOption {
	return func(c *Coordinator) error {
		c.noDragClassName = name
		return nil
	}
}

// WithNoPanClassName sets the class name the host's pan recognizer treats as
// a pan exclusion zone inside node elements.
func WithNoPanClassName(name string) CoordinatorOption {
	return func(c *Coordinator) error {
		c.noPanClassName = name
		return nil
	}
}

// WithDisableKeyboardA11y turns off keyboard accessibility affordances in
// node components that support them.
func WithDisableKeyboardA11y(v bool) CoordinatorOption {
	return func(c *Coordinator) error {
		c.disableKeyboardA11y = v
		return nil
	}
}

// WithNodeEventHandler subscribes fn to every interaction event emitted by
// rendered components. Use the kind-specific options to filter.
func WithNodeEventHandler(fn EventHandler) CoordinatorOption {
	return func(c *Coordinator) error {
		if fn != nil {
			c.events.Subscribe(func(e NodeEvent) { fn(e) })
		}
		return nil
	}
}

// WithOnNodeClick subscribes fn to click events.
func WithOnNodeClick(fn EventHandler) CoordinatorOption {
	return onKind(EventClick, fn)
}

// WithOnNodeDoubleClick subscribes fn to double-click events.
func WithOnNodeDoubleClick(fn EventHandler) CoordinatorOption {
	return onKind(EventDoubleClick, fn)
}

// WithOnNodeContextMenu subscribes fn to context-menu events.
func WithOnNodeContextMenu(fn EventHandler) CoordinatorOption {
	return onKind(EventContextMenu, fn)
}

// WithOnNodeMouseEnter subscribes fn to mouse-enter events.
func WithOnNodeMouseEnter(fn EventHandler) CoordinatorOption {
	return onKind(EventMouseEnter, fn)
}

// WithOnNodeMouseLeave subscribes fn to mouse-leave events.
func WithOnNodeMouseLeave(fn EventHandler) CoordinatorOption {
	return onKind(EventMouseLeave, fn)
}

// WithOnNodeMouseMove subscribes fn to mouse-move events.
func WithOnNodeMouseMove(fn EventHandler) CoordinatorOption {
	return onKind(EventMouseMove, fn)
}

func onKind(kind EventKind, fn EventHandler) CoordinatorOption {
	return func(c *Coordinator) error {
		if fn == nil {
			return nil
		}
		c.events.Subscribe(func(e NodeEvent) {
			if e.Kind == kind {
				fn(e)
			}
		})
		return nil
	}
}
