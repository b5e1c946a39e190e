package flow

// DefaultNodeType is the reserved registry key used when a node has no
// explicit type, and the fallback entry when a type lookup misses.
const DefaultNodeType = "default"

// Position is a 2D coordinate in canvas space.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Origin is the fractional anchor point (0..1 per axis) used to offset a
// node's rendered position relative to its bounding box. The zero value
// anchors at the top-left corner.
type Origin struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Extent is a rectangular bound into which node positions are clamped.
type Extent struct {
	Min Position `yaml:"min"`
	Max Position `yaml:"max"`
}

// HandlePosition names the side of a node where a connection attaches.
type HandlePosition string

const (
	HandleTop    HandlePosition = "top"
	HandleRight  HandlePosition = "right"
	HandleBottom HandlePosition = "bottom"
	HandleLeft   HandlePosition = "left"
)

// Node is a positioned, typed visual entity in the diagram. Node records are
// owned by the Store: readers receive immutable snapshots and all mutation
// funnels through Store methods.
//
// Capability fields (Draggable, Selectable, Connectable, Focusable) are
// tri-state: nil means "inherit the collection-wide default".
type Node struct {
	// ID uniquely identifies the node across the live node set.
	ID string `yaml:"id"`

	// Type keys into the component registry. Empty resolves to
	// DefaultNodeType.
	Type string `yaml:"type,omitempty"`

	// Position is the logical (layout-space) position. ComputedPosition is
	// the absolute position after the layout pass has resolved parent
	// offsets. Both are nil until set.
	Position         *Position `yaml:"position,omitempty"`
	ComputedPosition *Position `yaml:"-"`

	// Width and Height are the authored size; zero means unset.
	// ComputedWidth and ComputedHeight hold the measured size fed back by
	// the size observer.
	Width          float64 `yaml:"width,omitempty"`
	Height         float64 `yaml:"height,omitempty"`
	ComputedWidth  float64 `yaml:"-"`
	ComputedHeight float64 `yaml:"-"`

	// Origin overrides the collection-wide origin for this node.
	Origin *Origin `yaml:"origin,omitempty"`

	Draggable   *bool `yaml:"draggable,omitempty"`
	Selectable  *bool `yaml:"selectable,omitempty"`
	Connectable *bool `yaml:"connectable,omitempty"`
	Focusable   *bool `yaml:"focusable,omitempty"`

	Selected bool `yaml:"selected,omitempty"`
	Hidden   bool `yaml:"hidden,omitempty"`

	// DragHandle is a selector-like string restricting where a drag may
	// start inside the node's rendered element.
	DragHandle string `yaml:"dragHandle,omitempty"`

	// ParentID nests this node inside another node; its absolute position
	// is then offset by the parent chain.
	ParentID string `yaml:"parent,omitempty"`

	// ZIndex is the authored stacking order. The effective order is
	// computed by the store's layout pass (see Node.Z).
	ZIndex int `yaml:"zIndex,omitempty"`

	// SourcePosition and TargetPosition pick the connection sides; empty
	// defaults to bottom/top respectively.
	SourcePosition HandlePosition `yaml:"sourcePosition,omitempty"`
	TargetPosition HandlePosition `yaml:"targetPosition,omitempty"`

	ClassName string `yaml:"className,omitempty"`
	Style     string `yaml:"style,omitempty"`
	AriaLabel string `yaml:"ariaLabel,omitempty"`

	// Data is an arbitrary payload passed through to the visual component.
	Data any `yaml:"data,omitempty"`

	// Internal fields owned exclusively by the store's layout pass.
	// Presenters read them, nothing else writes them.
	z        int
	isParent bool
}

// Z returns the effective stacking order computed by the layout pass.
func (n *Node) Z() int { return n.z }

// IsParent reports whether any other node nests under this one.
func (n *Node) IsParent() bool { return n.isParent }

// Initialized reports whether the node has a usable size: either the
// measured pair or the authored pair is fully present.
func (n *Node) Initialized() bool {
	if n.ComputedWidth > 0 && n.ComputedHeight > 0 {
		return true
	}
	return n.Width > 0 && n.Height > 0
}

// clone returns a copy of the node. Copies share the Data payload but
// duplicate the optional pointer fields so the original stays immutable.
func (n *Node) clone() *Node {
	c := *n
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	if n.ComputedPosition != nil {
		p := *n.ComputedPosition
		c.ComputedPosition = &p
	}
	if n.Origin != nil {
		o := *n.Origin
		c.Origin = &o
	}
	c.Draggable = cloneBool(n.Draggable)
	c.Selectable = cloneBool(n.Selectable)
	c.Connectable = cloneBool(n.Connectable)
	c.Focusable = cloneBool(n.Focusable)
	return &c
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Bool is a convenience for building tri-state capability fields.
//
// Example:
//
//	node := flow.Node{ID: "n1", Draggable: flow.Bool(false)}
func Bool(v bool) *bool { return &v }

// CollectionFlags are the collection-wide interaction defaults applied to
// nodes whose own capability field is nil.
type CollectionFlags struct {
	NodesDraggable     bool
	NodesConnectable   bool
	NodesFocusable     bool
	ElementsSelectable bool
}

// DefaultCollectionFlags enables every interaction affordance.
func DefaultCollectionFlags() CollectionFlags {
	return CollectionFlags{
		NodesDraggable:     true,
		NodesConnectable:   true,
		NodesFocusable:     true,
		ElementsSelectable: true,
	}
}

// DimensionChange is one staged measurement produced by the size observer.
// Batches of changes are applied to the store as a single transaction.
type DimensionChange struct {
	// Element is the measured host element bound to the node.
	Element Measurable

	// ForceUpdate applies the measurement even when it matches the stored
	// computed size. Observer batches always set it.
	ForceUpdate bool
}
