package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// Locate finds a reference pattern (an anchor) and can publish a
// dynamic search region for the Runes that follow.
type Locate struct {
	Pattern *match.Pattern `json:"pattern,omitempty"`
	Matcher match.Matcher  `json:"-" yaml:"-"`

	// Region optionally restricts where the anchor is searched.
	Region *match.Region `json:"region,omitempty"`

	// MakeRegion publishes a dynamic region computed from the
	// match into the context.
	MakeRegion bool `json:"makeRegion,omitempty"`

	// Margin expands the dynamic region on all sides.
	Margin int `json:"margin,omitempty"`

	// RegionWidth and RegionHeight, when both positive, fix the
	// dynamic region's size instead of deriving it from the match.
	RegionWidth  int `json:"regionWidth,omitempty"`
	RegionHeight int `json:"regionHeight,omitempty"`
}

func (c *Locate) Check(r *Rune) error {
	if c.Pattern == nil {
		return &BadRune{r, "no pattern configured"}
	}
	if c.Matcher == nil {
		return &BadRune{r, "no matcher configured"}
	}
	return nil
}

func (c *Locate) Divine(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
	if c.Pattern == nil {
		return Vision{}, errors.New("no pattern configured")
	}
	if c.Matcher == nil {
		return Vision{}, errors.New("no matcher configured")
	}

	fs, err := c.Matcher.Search(ctx, rc.Image, c.Pattern, c.Region)
	if err != nil {
		return Vision{}, err
	}
	if len(fs) == 0 {
		return NewDormant(r.Name, "reference not found - piece may be absent"), nil
	}

	best := fs[0]
	min := threshold(r, c.Pattern)
	if best.Score < min {
		v := NewDormant(r.Name, fmt.Sprintf("reference score %.3f below threshold %.3f", best.Score, min))
		v.Resonance = best.Score
		return v, nil
	}

	pos := best.Position
	rc.RefPosition = &pos
	if best.Angle != nil {
		a := *best.Angle
		rc.RefAngle = &a
	}
	if best.Scale != nil {
		s := *best.Scale
		rc.RefScale = &s
	}

	made := false
	if c.MakeRegion {
		region := c.dynamicRegion(best).Clip(rc.Image.Width(), rc.Image.Height())
		rc.Region = &region
		made = true
	}

	v := NewAwakened(r.Name, best.Score, "reference located")
	v.Position = &pos
	v.Angle = best.Angle
	v.Scale = best.Scale
	v = v.WithMeta("regionCreated", made)
	if made {
		v = v.WithMeta("region", *rc.Region)
	}
	return v, nil
}

// dynamicRegion computes the unclipped region for the match, by
// priority: a fixed configured size centered on the match, else the
// bounding box of the transformed corners expanded by Margin, else a
// default square of side 200+2*Margin centered on the match.
func (c *Locate) dynamicRegion(f match.Found) match.Region {
	if 0 < c.RegionWidth && 0 < c.RegionHeight {
		return centeredRegion(f.Position, c.RegionWidth, c.RegionHeight)
	}
	if 4 <= len(f.Corners) {
		return match.BoundingRegion(f.Corners, c.Margin)
	}
	side := 200 + 2*c.Margin
	return centeredRegion(f.Position, side, side)
}

func centeredRegion(p match.Point, w, h int) match.Region {
	return match.Region{
		X:      int(p.X) - w/2,
		Y:      int(p.Y) - h/2,
		Width:  w,
		Height: h,
	}
}

// threshold resolves the effective acceptance score: the Rune's own
// threshold when set, else the pattern's default.
func threshold(r *Rune, p *match.Pattern) float64 {
	if 0 < r.MinResonance {
		return r.MinResonance
	}
	return p.MinScore
}
