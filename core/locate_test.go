package core

import (
	"context"
	"testing"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
	. "github.com/Silemae70/TheEyeOfCthulhu-sub000/util/testutil"
)

func anchorPattern() *match.Pattern {
	return &match.Pattern{
		Name:     "anchor",
		Width:    40,
		Height:   40,
		MinScore: 0.7,
	}
}

func locateRune(m match.Matcher, c *Locate) *Rune {
	if c == nil {
		c = &Locate{}
	}
	if c.Pattern == nil {
		c.Pattern = anchorPattern()
	}
	c.Matcher = m
	return &Rune{
		Name:         "find_anchor",
		MinResonance: 0.8,
		Craft:        c,
	}
}

func TestLocateGuards(t *testing.T) {
	m := match.NewStaticMatcher()

	r := &Rune{Name: "x", Craft: &Locate{Matcher: m}}
	if v := r.Execute(context.Background(), NewRuneContext(frame())); v.State != Void {
		t.Fatalf("pattern-less locate got %s", v.State)
	}

	r = &Rune{Name: "x", Craft: &Locate{Pattern: anchorPattern()}}
	if v := r.Execute(context.Background(), NewRuneContext(frame())); v.State != Void {
		t.Fatalf("matcher-less locate got %s", v.State)
	}
}

func TestLocateNotFound(t *testing.T) {
	m := match.NewStaticMatcher()
	r := locateRune(m, nil)

	v := r.Execute(context.Background(), NewRuneContext(frame()))
	if v.State != Dormant {
		t.Fatalf("got %s", v.State)
	}
	if v.Message != "reference not found - piece may be absent" {
		t.Fatalf("got message %q", v.Message)
	}
}

func TestLocateBelowThreshold(t *testing.T) {
	m := match.NewStaticMatcher()
	m.SetFound("anchor", match.Found{Position: match.Point{X: 100, Y: 100}, Score: 0.75})
	r := locateRune(m, nil) // threshold 0.8

	rc := NewRuneContext(frame())
	v := r.Execute(context.Background(), rc)
	if v.State != Dormant {
		t.Fatalf("got %s: %s", v.State, JS(v))
	}
	if v.Resonance != 0.75 {
		t.Fatalf("score should be stored as reported, got %v", v.Resonance)
	}
	if rc.RefPosition != nil {
		t.Fatal("a dormant locate must not set the reference pose")
	}
}

func TestLocatePose(t *testing.T) {
	m := match.NewStaticMatcher()
	m.SetFound("anchor", match.Found{
		Position: match.Point{X: 120, Y: 80},
		Score:    0.92,
		Angle:    F64(5),
		Scale:    F64(1.1),
	})
	r := locateRune(m, nil)

	rc := NewRuneContext(frame())
	v := r.Execute(context.Background(), rc)
	if v.State != Awakened {
		t.Fatalf("got %s: %s", v.State, JS(v))
	}
	if rc.RefPosition == nil || rc.RefPosition.X != 120 || rc.RefPosition.Y != 80 {
		t.Fatalf("bad reference position: %#v", rc.RefPosition)
	}
	if rc.RefAngle == nil || *rc.RefAngle != 5 {
		t.Fatalf("bad reference angle: %#v", rc.RefAngle)
	}
	if rc.RefScale == nil || *rc.RefScale != 1.1 {
		t.Fatalf("bad reference scale: %#v", rc.RefScale)
	}
	if rc.Region != nil {
		t.Fatal("region created without MakeRegion")
	}
	if made, _ := v.Meta["regionCreated"].(bool); made {
		t.Fatal("meta claims a region was created")
	}
}

func TestLocateFixedRegion(t *testing.T) {
	m := match.NewStaticMatcher()
	m.SetFound("anchor", match.Found{Position: match.Point{X: 320, Y: 240}, Score: 0.9})
	r := locateRune(m, &Locate{
		MakeRegion:   true,
		Margin:       50, // ignored when a fixed size is configured
		RegionWidth:  100,
		RegionHeight: 60,
	})

	rc := NewRuneContext(frame())
	if v := r.Execute(context.Background(), rc); v.State != Awakened {
		t.Fatalf("got %s", v.State)
	}
	want := match.Region{X: 270, Y: 210, Width: 100, Height: 60}
	if rc.Region == nil || *rc.Region != want {
		t.Fatalf("got region %#v, want %#v", rc.Region, want)
	}
}

func TestLocateCornerRegion(t *testing.T) {
	m := match.NewStaticMatcher()
	m.SetFound("anchor", match.Found{
		Position: match.Point{X: 100, Y: 100},
		Score:    0.9,
		Corners: []match.Point{
			{X: 90, Y: 95}, {X: 130, Y: 95}, {X: 130, Y: 125}, {X: 90, Y: 125},
		},
	})
	r := locateRune(m, &Locate{MakeRegion: true, Margin: 10})

	rc := NewRuneContext(frame())
	if v := r.Execute(context.Background(), rc); v.State != Awakened {
		t.Fatalf("got %s", v.State)
	}
	want := match.Region{X: 80, Y: 85, Width: 60, Height: 50}
	if rc.Region == nil || *rc.Region != want {
		t.Fatalf("got region %#v, want %#v", rc.Region, want)
	}
}

func TestLocateDefaultRegion(t *testing.T) {
	m := match.NewStaticMatcher()
	m.SetFound("anchor", match.Found{Position: match.Point{X: 320, Y: 240}, Score: 0.9})
	r := locateRune(m, &Locate{MakeRegion: true, Margin: 15})

	rc := NewRuneContext(frame())
	if v := r.Execute(context.Background(), rc); v.State != Awakened {
		t.Fatalf("got %s", v.State)
	}
	// 200 + 2*15 = 230 square centered on the match.
	want := match.Region{X: 205, Y: 125, Width: 230, Height: 230}
	if rc.Region == nil || *rc.Region != want {
		t.Fatalf("got region %#v, want %#v", rc.Region, want)
	}
}

func TestLocateRegionClamped(t *testing.T) {
	// A match near the corner with generous margins must still give
	// a region fully inside the image, for any configuration.
	configs := []*Locate{
		{MakeRegion: true, Margin: 500},
		{MakeRegion: true, Margin: -500},
		{MakeRegion: true, RegionWidth: 10000, RegionHeight: 10000},
		{MakeRegion: true, Margin: 30, RegionWidth: 3, RegionHeight: 100000},
	}

	for i, c := range configs {
		m := match.NewStaticMatcher()
		m.SetFound("anchor", match.Found{Position: match.Point{X: 5, Y: 3}, Score: 0.9})
		r := locateRune(m, c)

		rc := NewRuneContext(frame())
		v := r.Execute(context.Background(), rc)
		if v.State != Awakened {
			t.Fatalf("config %d: got %s", i, v.State)
		}
		reg := rc.Region
		if reg == nil {
			t.Fatalf("config %d: no region", i)
		}
		if reg.X < 0 || reg.Y < 0 || reg.Width < 0 || reg.Height < 0 ||
			640 < reg.X+reg.Width || 480 < reg.Y+reg.Height {
			t.Fatalf("config %d: region %#v escapes a 640x480 image", i, reg)
		}
	}
}
