package flow

import (
	"strings"
	"testing"
)

// recordingComponent counts draws and remembers the last prop set.
type recordingComponent struct {
	draws int
	last  NodeProps
}

func (r *recordingComponent) Draw(props NodeProps) {
	r.draws++
	r.last = props
}

func TestRegistry_Resolve(t *testing.T) {
	type tc struct {
		register []string
		lookup   string
		wantDef  bool
		wantCode string
		wantIn   []string // substrings expected in the reported message
	}

	tests := map[string]tc{
		"exact match resolves without error": {
			register: []string{"custom"},
			lookup:   "custom",
		},
		"default name resolves without error": {
			lookup: DefaultNodeType,
		},
		"unknown type reports 003 and falls back": {
			lookup:   "custom",
			wantDef:  true,
			wantCode: CodeNodeTypeMissing,
			wantIn:   []string{`"custom"`},
		},
		"near miss suggests the registered name": {
			register: []string{"custom"},
			lookup:   "custm",
			wantDef:  true,
			wantCode: CodeNodeTypeMissing,
			wantIn:   []string{`"custm"`, `"custom"`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			def := &recordingComponent{}
			reg := NewRegistry(def)
			registered := make(map[string]*recordingComponent)
			for _, typ := range tt.register {
				c := &recordingComponent{}
				registered[typ] = c
				reg.Register(typ, c)
			}

			var gotCode, gotMsg string
			handler := func(code, msg string) { gotCode, gotMsg = code, msg }

			c := reg.Resolve(tt.lookup, handler)
			if c == nil {
				t.Fatal("Resolve returned nil component")
			}

			if tt.wantDef {
				if c != NodeComponent(def) {
					t.Error("Resolve did not fall back to the default entry")
				}
			} else if tt.lookup != DefaultNodeType && c != NodeComponent(registered[tt.lookup]) {
				t.Errorf("Resolve returned the wrong component for %q", tt.lookup)
			}

			if gotCode != tt.wantCode {
				t.Errorf("error code = %q, want %q", gotCode, tt.wantCode)
			}
			for _, sub := range tt.wantIn {
				if !strings.Contains(gotMsg, sub) {
					t.Errorf("message %q missing %q", gotMsg, sub)
				}
			}
		})
	}
}

func TestRegistry_Resolve_NilHandler(t *testing.T) {
	reg := NewRegistry(&recordingComponent{})
	// Must not panic with no handler configured.
	if c := reg.Resolve("missing", nil); c == nil {
		t.Fatal("Resolve returned nil with nil handler")
	}
}

func TestNewRegistry_NilDefaultPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewRegistry(nil) did not panic")
		}
	}()
	NewRegistry(nil)
}

func TestComponentFunc(t *testing.T) {
	called := false
	var c NodeComponent = ComponentFunc(func(NodeProps) { called = true })
	c.Draw(NodeProps{})
	if !called {
		t.Error("ComponentFunc did not invoke the wrapped function")
	}
}
