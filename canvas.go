package flow

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Canvas is a plain text cell grid that node components can draw onto. It is
// the reference surface used by the built-in BoxNode component and the
// example hosts; real applications bring their own surface.
type Canvas struct {
	width, height int
	cells         [][]rune
}

// NewCanvas creates a cleared canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{width: width, height: height}
	c.Clear()
	return c
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// Clear resets every cell to a space.
func (c *Canvas) Clear() {
	c.cells = make([][]rune, c.height)
	for y := range c.cells {
		row := make([]rune, c.width)
		for x := range row {
			row[x] = ' '
		}
		c.cells[y] = row
	}
}

// Set writes a rune at (x, y). Writes outside the grid are clipped.
func (c *Canvas) Set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = r
}

// SetString writes a string starting at (x, y), clipping at the right edge.
func (c *Canvas) SetString(x, y int, s string) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r)
	}
}

// String renders the grid as newline-joined rows.
func (c *Canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// boxElement is the measurable element BoxNode maintains per node: its size
// is whatever the box was last drawn at, which feeds the measured dimensions
// back into the store when the host flushes the observer.
type boxElement struct {
	mu   sync.Mutex
	id   string
	w, h float64
}

var _ Measurable = (*boxElement)(nil)

func (e *boxElement) NodeID() string { return e.id }

func (e *boxElement) BoundingSize() (float64, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.w, e.h
}

func (e *boxElement) setSize(w, h float64) {
	e.mu.Lock()
	e.w, e.h = w, h
	e.mu.Unlock()
}

// BoxNode is the built-in default visual component: a bordered box with a
// centered label drawn onto a Canvas at the node's render position. Selected
// nodes get a thick border. Boxes without an authored size are sized to fit
// their label, and the drawn size is registered with the shared observer so
// measured dimensions flow back into the store.
type BoxNode struct {
	canvas *Canvas

	mu       sync.Mutex
	elements map[string]*boxElement
}

var _ NodeComponent = (*BoxNode)(nil)

// NewBoxNode creates the component drawing onto canvas.
func NewBoxNode(canvas *Canvas) *BoxNode {
	if canvas == nil {
		panic("flow: nil canvas in NewBoxNode")
	}
	return &BoxNode{canvas: canvas, elements: make(map[string]*boxElement)}
}

// Draw renders the node's box. Hidden nodes draw nothing but keep their
// element registered so a later unhide measures immediately.
func (b *BoxNode) Draw(props NodeProps) {
	label := boxLabel(props)

	w := int(props.Width)
	h := int(props.Height)
	if w < 2 {
		w = lipgloss.Width(label) + 4
	}
	if h < 2 {
		h = 3
	}

	b.measure(props, w, h)

	if props.Hidden {
		return
	}

	border := lipgloss.RoundedBorder()
	if props.Selected {
		border = lipgloss.ThickBorder()
	}

	x := int(props.RenderPosition.X)
	y := int(props.RenderPosition.Y)

	top, bottom, left, right := firstRune(border.Top), firstRune(border.Bottom), firstRune(border.Left), firstRune(border.Right)
	b.canvas.Set(x, y, firstRune(border.TopLeft))
	b.canvas.Set(x+w-1, y, firstRune(border.TopRight))
	b.canvas.Set(x, y+h-1, firstRune(border.BottomLeft))
	b.canvas.Set(x+w-1, y+h-1, firstRune(border.BottomRight))
	for i := 1; i < w-1; i++ {
		b.canvas.Set(x+i, y, top)
		b.canvas.Set(x+i, y+h-1, bottom)
	}
	for j := 1; j < h-1; j++ {
		b.canvas.Set(x, y+j, left)
		b.canvas.Set(x+w-1, y+j, right)
		for i := 1; i < w-1; i++ {
			b.canvas.Set(x+i, y+j, ' ')
		}
	}

	// Center the label on the middle row, truncated to the interior.
	if interior := w - 2; interior > 0 {
		text := label
		if lipgloss.Width(text) > interior {
			text = string([]rune(text)[:interior])
		}
		offset := (interior - lipgloss.Width(text)) / 2
		b.canvas.SetString(x+1+offset, y+h/2, text)
	}
}

// measure records the drawn size on the node's element, creating and
// registering it with the shared observer on first draw.
func (b *BoxNode) measure(props NodeProps, w, h int) {
	b.mu.Lock()
	el, ok := b.elements[props.ID]
	if !ok {
		el = &boxElement{id: props.ID}
		b.elements[props.ID] = el
	}
	b.mu.Unlock()

	el.setSize(float64(w), float64(h))
	if !ok && props.Observer != nil {
		props.Observer.Observe(el)
	}
}

func boxLabel(props NodeProps) string {
	if s, ok := props.Data.(string); ok && s != "" {
		return s
	}
	return props.ID
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
