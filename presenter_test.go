package flow

import (
	"reflect"
	"strings"
	"testing"
)

func TestPresenter_UnknownTypeScenario(t *testing.T) {
	// Node n1 carries an unregistered type: the error callback fires with
	// code 003 naming the type, rendering falls back to the default entry,
	// and geometry resolves normally.
	s := NewStore()
	s.AddNodes(Node{
		ID:       "n1",
		Type:     "custom",
		Width:    100,
		Height:   50,
		Position: &Position{X: 10, Y: 20},
	})
	reg, def := testRegistry()

	var gotCode, gotMsg string
	c, err := NewCoordinator(s, reg, WithErrorHandler(func(code, msg string) {
		gotCode, gotMsg = code, msg
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if gotCode != CodeNodeTypeMissing {
		t.Errorf("error code = %q, want %q", gotCode, CodeNodeTypeMissing)
	}
	if !strings.Contains(gotMsg, "custom") {
		t.Errorf("message %q does not reference the unknown type", gotMsg)
	}
	if def.draws != 1 {
		t.Fatalf("default component drew %d times, want 1", def.draws)
	}

	props := def.last
	if !props.Initialized {
		t.Error("initialized = false with a full authored size pair")
	}
	if props.Position != (Position{X: 10, Y: 20}) {
		t.Errorf("position = %v, want (10,20) with no extent configured", props.Position)
	}
	if props.Type != "custom" {
		t.Errorf("resolved type name = %q, want the authored name", props.Type)
	}
}

func TestPresenter_MissingNodeRendersNothing(t *testing.T) {
	s := NewStore()
	s.AddNodes(Node{ID: "n2"})
	reg, def := testRegistry()

	errs := 0
	c, err := NewCoordinator(s, reg, WithErrorHandler(func(string, string) { errs++ }))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	p, _ := c.Presenter("n2")
	draws := def.draws

	// Remove the record out from under the presenter and force a render
	// through the stale handle: the transient inconsistency window.
	s.RemoveNodes("n2")
	p.render()

	if def.draws != draws {
		t.Errorf("presenter drew %d times for a missing node", def.draws-draws)
	}
	if errs != 0 {
		t.Errorf("missing node reported %d errors, want 0", errs)
	}
	if _, ok := p.Props(); ok {
		t.Error("Props() resolved a deleted node")
	}
}

func TestPresenter_CapabilityResolution(t *testing.T) {
	type tc struct {
		node          *bool
		collection    bool
		wantEffective bool
	}

	tests := map[string]tc{
		"nil inherits collection true":     {node: nil, collection: true, wantEffective: true},
		"nil inherits collection false":    {node: nil, collection: false, wantEffective: false},
		"explicit true beats collection":   {node: Bool(true), collection: false, wantEffective: true},
		"explicit false beats collection":  {node: Bool(false), collection: true, wantEffective: false},
		"explicit true matches collection": {node: Bool(true), collection: true, wantEffective: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			flags := s.Flags()
			flags.NodesDraggable = tt.collection
			s.SetFlags(flags)
			s.AddNodes(Node{ID: "a", Draggable: tt.node})
			reg, def := testRegistry()

			c, err := NewCoordinator(s, reg)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()

			if def.last.Draggable != tt.wantEffective {
				t.Errorf("effective draggable = %v, want %v", def.last.Draggable, tt.wantEffective)
			}
		})
	}
}

func TestPresenter_PropsIdempotent(t *testing.T) {
	s := NewStore()
	s.AddNodes(Node{
		ID:       "a",
		Width:    40,
		Height:   20,
		Position: &Position{X: 50, Y: 60},
		Origin:   &Origin{X: 0.5, Y: 0.5},
	})
	reg, _ := testRegistry()

	c, err := NewCoordinator(s, reg)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	p, _ := c.Presenter("a")
	first, ok1 := p.Props()
	second, ok2 := p.Props()
	if !ok1 || !ok2 {
		t.Fatal("Props() failed to resolve a live node")
	}

	// Handlers are fresh closures per resolution; compare the data fields.
	scrub := func(pr *NodeProps) {
		pr.OnClick, pr.OnDoubleClick, pr.OnContextMenu = nil, nil, nil
		pr.OnMouseEnter, pr.OnMouseLeave, pr.OnMouseMove = nil, nil, nil
	}
	scrub(&first)
	scrub(&second)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated resolution diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestPresenter_GeometryResolution(t *testing.T) {
	extent := Extent{Min: Position{X: 0, Y: 0}, Max: Position{X: 100, Y: 100}}

	type tc struct {
		node       Node
		origin     Origin // collection origin
		wantPos    Position
		wantRender Position
	}

	tests := map[string]tc{
		"position clamped into extent": {
			node:       Node{ID: "a", Position: &Position{X: 150, Y: 50}},
			wantPos:    Position{X: 100, Y: 50},
			wantRender: Position{X: 100, Y: 50},
		},
		"collection origin offsets by size": {
			node:       Node{ID: "a", Width: 40, Height: 20, Position: &Position{X: 50, Y: 50}},
			origin:     Origin{X: 0.5, Y: 0.5},
			wantPos:    Position{X: 50, Y: 50},
			wantRender: Position{X: 30, Y: 40},
		},
		"node origin overrides collection origin": {
			node:       Node{ID: "a", Width: 40, Height: 20, Position: &Position{X: 50, Y: 50}, Origin: &Origin{X: 1, Y: 1}},
			origin:     Origin{X: 0.5, Y: 0.5},
			wantPos:    Position{X: 50, Y: 50},
			wantRender: Position{X: 10, Y: 30},
		},
		"computed size preferred for origin offset": {
			node: Node{ID: "a", Width: 40, Height: 20,
				ComputedWidth: 60, ComputedHeight: 40,
				Position: &Position{X: 60, Y: 60}, Origin: &Origin{X: 0.5, Y: 0.5}},
			wantPos:    Position{X: 60, Y: 60},
			wantRender: Position{X: 30, Y: 40},
		},
		"missing position defaults to origin corner": {
			node:       Node{ID: "a"},
			wantPos:    Position{},
			wantRender: Position{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			s.AddNodes(tt.node)
			reg, def := testRegistry()

			c, err := NewCoordinator(s, reg, WithExtent(extent), WithOrigin(tt.origin))
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()

			if def.last.Position != tt.wantPos {
				t.Errorf("Position = %v, want %v", def.last.Position, tt.wantPos)
			}
			if def.last.RenderPosition != tt.wantRender {
				t.Errorf("RenderPosition = %v, want %v", def.last.RenderPosition, tt.wantRender)
			}
		})
	}
}

func TestPresenter_HandleDefaults(t *testing.T) {
	s := NewStore()
	s.AddNodes(
		Node{ID: "plain"},
		Node{ID: "explicit", SourcePosition: HandleRight, TargetPosition: HandleLeft},
	)
	reg := NewRegistry(&recordingComponent{})
	byID := make(map[string]NodeProps)
	reg.Register(DefaultNodeType, ComponentFunc(func(p NodeProps) { byID[p.ID] = p }))

	c, err := NewCoordinator(s, reg)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if p := byID["plain"]; p.SourcePosition != HandleBottom || p.TargetPosition != HandleTop {
		t.Errorf("default handles = (%s,%s), want (bottom,top)", p.SourcePosition, p.TargetPosition)
	}
	if p := byID["explicit"]; p.SourcePosition != HandleRight || p.TargetPosition != HandleLeft {
		t.Errorf("explicit handles lost: (%s,%s)", p.SourcePosition, p.TargetPosition)
	}
}

func TestPresenter_EmptyTypeResolvesDefault(t *testing.T) {
	s := NewStore()
	s.AddNodes(Node{ID: "a"})
	reg, def := testRegistry()

	errs := 0
	c, err := NewCoordinator(s, reg, WithErrorHandler(func(string, string) { errs++ }))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if def.last.Type != DefaultNodeType {
		t.Errorf("resolved type = %q, want %q", def.last.Type, DefaultNodeType)
	}
	if errs != 0 {
		t.Errorf("empty type reported %d errors, want 0", errs)
	}
}
