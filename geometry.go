package flow

// ClampPosition clamps p into the extent. A nil extent passes the position
// through unchanged, so positions already inside the extent round-trip
// exactly.
func ClampPosition(p Position, extent *Extent) Position {
	if extent == nil {
		return p
	}
	return Position{
		X: clampValue(p.X, extent.Min.X, extent.Max.X),
		Y: clampValue(p.Y, extent.Min.Y, extent.Max.Y),
	}
}

func clampValue(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApplyOrigin offsets p by (width*origin.X, height*origin.Y) so the origin
// fraction of the node's bounding box lands on p. The zero origin is the
// top-left corner and returns p unchanged.
func ApplyOrigin(p Position, width, height float64, origin Origin) Position {
	return Position{
		X: p.X - width*origin.X,
		Y: p.Y - height*origin.Y,
	}
}

// positionOrZero dereferences an optional position, defaulting to (0,0).
func positionOrZero(p *Position) Position {
	if p == nil {
		return Position{}
	}
	return *p
}

// nodeSize picks the size used for origin adjustment: measured size when
// available, else the authored size, else zero.
func nodeSize(n *Node) (w, h float64) {
	if n.ComputedWidth > 0 && n.ComputedHeight > 0 {
		return n.ComputedWidth, n.ComputedHeight
	}
	return n.Width, n.Height
}
