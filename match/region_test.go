package match

import "testing"

func TestRegionClip(t *testing.T) {
	for _, c := range []struct {
		in   Region
		want Region
	}{
		// Fully inside: unchanged.
		{Region{10, 10, 100, 100}, Region{10, 10, 100, 100}},
		// Hanging off the top-left: shrunk, not shifted.
		{Region{-20, -30, 100, 100}, Region{0, 0, 80, 70}},
		// Hanging off the bottom-right.
		{Region{600, 440, 100, 100}, Region{600, 440, 40, 40}},
		// Entirely outside: empty at a valid origin.
		{Region{700, 500, 50, 50}, Region{640, 480, 0, 0}},
		// Entirely above and left: empty.
		{Region{-200, -200, 50, 50}, Region{0, 0, 0, 0}},
	} {
		got := c.in.Clip(640, 480)
		if got != c.want {
			t.Fatalf("Clip(%+v) = %+v, want %+v", c.in, got, c.want)
		}
		if got.X < 0 || got.Y < 0 || got.Width < 0 || got.Height < 0 {
			t.Fatalf("Clip(%+v) = %+v is not canonical", c.in, got)
		}
	}
}

func TestRegionEmptyContains(t *testing.T) {
	r := Region{10, 10, 20, 20}
	if r.Empty() {
		t.Fatal("non-empty region reported empty")
	}
	if (Region{10, 10, 0, 20}).Empty() == false {
		t.Fatal("zero-width region reported non-empty")
	}
	if !r.Contains(Point{X: 10, Y: 10}) {
		t.Fatal("origin should be inside")
	}
	if r.Contains(Point{X: 30, Y: 10}) {
		t.Fatal("right edge is exclusive")
	}
}

func TestBoundingRegion(t *testing.T) {
	ps := []Point{
		{X: 100, Y: 50},
		{X: 140, Y: 50},
		{X: 140, Y: 90},
		{X: 100, Y: 90},
	}
	got := BoundingRegion(ps, 10)
	want := Region{90, 40, 60, 60}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got = BoundingRegion(nil, 10); !got.Empty() {
		t.Fatalf("got %+v for no points", got)
	}
}
