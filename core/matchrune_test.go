package core

import (
	"context"
	"testing"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

func logoPattern() *match.Pattern {
	return &match.Pattern{
		Name:     "logo",
		Width:    60,
		Height:   30,
		MinScore: 0.7,
	}
}

func TestMatchRegionPriority(t *testing.T) {
	dynamic := match.Region{X: 10, Y: 10, Width: 50, Height: 50}
	static := match.Region{X: 100, Y: 100, Width: 80, Height: 80}

	cases := []struct {
		name       string
		useContext bool
		static     *match.Region
		contextual *match.Region
		want       *match.Region
	}{
		{"dynamic wins", true, &static, &dynamic, &dynamic},
		{"flag off ignores dynamic", false, &static, &dynamic, &static},
		{"no dynamic falls back to static", true, &static, nil, &static},
		{"nothing means whole image", true, nil, nil, nil},
	}

	for _, c := range cases {
		m := match.NewStaticMatcher()
		m.SetFound("logo", match.Found{Position: match.Point{X: 30, Y: 30}, Score: 0.9})

		r := &Rune{
			Name:         "logo",
			MinResonance: 0.75,
			Craft: &MatchPattern{
				Pattern:          logoPattern(),
				Matcher:          m,
				Region:           c.static,
				UseContextRegion: c.useContext,
			},
		}

		rc := NewRuneContext(frame())
		rc.Region = c.contextual

		if v := r.Execute(context.Background(), rc); v.State != Awakened {
			t.Fatalf("%s: got %s", c.name, v.State)
		}

		calls := m.Calls()
		if len(calls) != 1 {
			t.Fatalf("%s: %d searches", c.name, len(calls))
		}
		got := calls[0].Region
		switch {
		case c.want == nil && got != nil:
			t.Fatalf("%s: searched %#v, wanted the whole image", c.name, got)
		case c.want != nil && (got == nil || *got != *c.want):
			t.Fatalf("%s: searched %#v, wanted %#v", c.name, got, c.want)
		}
	}
}

func TestMatchCornersMeta(t *testing.T) {
	corners := []match.Point{{X: 0, Y: 0}, {X: 60, Y: 0}, {X: 60, Y: 30}, {X: 0, Y: 30}}

	m := match.NewStaticMatcher()
	m.SetFound("logo", match.Found{
		Position: match.Point{X: 30, Y: 15},
		Score:    0.81,
		Corners:  corners,
	})

	r := &Rune{
		Name:         "logo",
		MinResonance: 0.75,
		Craft:        &MatchPattern{Pattern: logoPattern(), Matcher: m},
	}

	v := r.Execute(context.Background(), NewRuneContext(frame()))
	if v.State != Awakened {
		t.Fatalf("got %s", v.State)
	}
	got, have := v.Meta["corners"].([]match.Point)
	if !have || len(got) != 4 {
		t.Fatalf("bad corners meta: %#v", v.Meta)
	}
}

func TestMatchBelowThreshold(t *testing.T) {
	m := match.NewStaticMatcher()
	m.SetFound("logo", match.Found{Position: match.Point{X: 30, Y: 15}, Score: 0.6})

	r := &Rune{
		Name:         "logo",
		MinResonance: 0.75,
		Craft:        &MatchPattern{Pattern: logoPattern(), Matcher: m},
	}

	v := r.Execute(context.Background(), NewRuneContext(frame()))
	if v.State != Dormant {
		t.Fatalf("got %s", v.State)
	}
	if v.Resonance != 0.6 {
		t.Fatalf("score should be stored as reported, got %v", v.Resonance)
	}
}

func TestMatchPatternDefaultThreshold(t *testing.T) {
	// A rune without its own threshold falls back to the pattern's.
	m := match.NewStaticMatcher()
	m.SetFound("logo", match.Found{Position: match.Point{X: 30, Y: 15}, Score: 0.72})

	r := &Rune{
		Name:  "logo",
		Craft: &MatchPattern{Pattern: logoPattern(), Matcher: m}, // pattern MinScore 0.7
	}

	if v := r.Execute(context.Background(), NewRuneContext(frame())); v.State != Awakened {
		t.Fatalf("got %s", v.State)
	}
}
