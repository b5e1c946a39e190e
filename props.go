package flow

// EventHandler receives one node interaction event.
type EventHandler func(NodeEvent)

// NodeProps is the flattened, fully resolved prop set handed to a
// NodeComponent. Every field is computed by the presenter from the node
// record plus the collection-wide configuration; components never reach back
// into the store.
type NodeProps struct {
	ID        string
	Type      string
	ClassName string
	Style     string
	Data      any

	// Width and Height are the authored size, zero when unset.
	Width  float64
	Height float64

	// Position is the clamped absolute position. RenderPosition is the
	// origin-adjusted position the component should actually draw at.
	Position       Position
	RenderPosition Position

	// Initialized reports that a full size pair (measured or authored) is
	// available.
	Initialized bool

	SourcePosition HandlePosition
	TargetPosition HandlePosition

	Hidden   bool
	Selected bool

	// Resolved capability flags: the node's explicit value when set, else
	// the collection-wide default.
	Draggable   bool
	Selectable  bool
	Connectable bool
	Focusable   bool

	// Observer is the shared size observer, nil when the runtime has no
	// measurement capability. Components register their rendered element
	// with it to feed measured dimensions back into the store.
	Observer SizeObserver

	DragHandle string
	ZIndex     int
	IsParent   bool

	// Class names the host's gesture recognizers treat as drag/pan
	// exclusion zones.
	NoDragClassName string
	NoPanClassName  string

	// CanvasID identifies the owning canvas instance, for accessibility
	// identifiers when several canvases share a host page.
	CanvasID            string
	AriaLabel           string
	DisableKeyboardA11y bool

	// Interaction handlers, pre-bound to this node's id. Always non-nil.
	OnClick       EventHandler
	OnDoubleClick EventHandler
	OnContextMenu EventHandler
	OnMouseEnter  EventHandler
	OnMouseLeave  EventHandler
	OnMouseMove   EventHandler
}
