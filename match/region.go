package match

// Region is a rectangular region of interest in image coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point is inside the region.
func (r Region) Contains(p Point) bool {
	return float64(r.X) <= p.X && p.X < float64(r.X+r.Width) &&
		float64(r.Y) <= p.Y && p.Y < float64(r.Y+r.Height)
}

// Clip clamps the region to a w x h image.
//
// The origin never goes negative: a region hanging off the top or left
// edge is shrunk, not shifted.  Degenerate inputs collapse to an empty
// region at a valid origin.
func (r Region) Clip(w, h int) Region {
	if r.X < 0 {
		r.Width += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.Height += r.Y
		r.Y = 0
	}
	if r.X > w {
		r.X = w
	}
	if r.Y > h {
		r.Y = h
	}
	if r.X+r.Width > w {
		r.Width = w - r.X
	}
	if r.Y+r.Height > h {
		r.Height = h - r.Y
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// BoundingRegion returns the axis-aligned bounds of the given points,
// expanded by margin on all sides.
func BoundingRegion(ps []Point, margin int) Region {
	if len(ps) == 0 {
		return Region{}
	}
	minX, maxX := ps[0].X, ps[0].X
	minY, maxY := ps[0].Y, ps[0].Y
	for _, p := range ps[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Region{
		X:      int(minX) - margin,
		Y:      int(minY) - margin,
		Width:  int(maxX-minX) + 2*margin,
		Height: int(maxY-minY) + 2*margin,
	}
}
