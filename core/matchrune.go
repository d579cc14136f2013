package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// MatchPattern searches for a named pattern, optionally inside the
// dynamic region published by an earlier Locate.
type MatchPattern struct {
	Pattern *match.Pattern `json:"pattern,omitempty"`
	Matcher match.Matcher  `json:"-" yaml:"-"`

	// Region optionally restricts the search statically.
	Region *match.Region `json:"region,omitempty"`

	// UseContextRegion prefers the context's dynamic region over
	// the static one when both exist.
	UseContextRegion bool `json:"useContextRegion,omitempty"`
}

func (c *MatchPattern) Check(r *Rune) error {
	if c.Pattern == nil {
		return &BadRune{r, "no pattern configured"}
	}
	if c.Matcher == nil {
		return &BadRune{r, "no matcher configured"}
	}
	return nil
}

// searchRegion resolves the effective region by priority: dynamic
// (when flagged and present), then static, then the whole image (nil).
func (c *MatchPattern) searchRegion(rc *RuneContext) *match.Region {
	if c.UseContextRegion && rc.Region != nil {
		return rc.Region
	}
	return c.Region
}

func (c *MatchPattern) Divine(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
	if c.Pattern == nil {
		return Vision{}, errors.New("no pattern configured")
	}
	if c.Matcher == nil {
		return Vision{}, errors.New("no matcher configured")
	}

	region := c.searchRegion(rc)
	fs, err := c.Matcher.Search(ctx, rc.Image, c.Pattern, region)
	if err != nil {
		return Vision{}, err
	}
	if len(fs) == 0 {
		return NewDormant(r.Name, fmt.Sprintf("pattern %q not found", c.Pattern.Name)), nil
	}

	best := fs[0]
	min := threshold(r, c.Pattern)
	if best.Score < min {
		v := NewDormant(r.Name, fmt.Sprintf("score %.3f below threshold %.3f", best.Score, min))
		v.Resonance = best.Score
		return v, nil
	}

	pos := best.Position
	v := NewAwakened(r.Name, best.Score, fmt.Sprintf("pattern %q found", c.Pattern.Name))
	v.Position = &pos
	v.Angle = best.Angle
	v.Scale = best.Scale
	if 0 < len(best.Corners) {
		v = v.WithMeta("corners", best.Corners)
	}
	if region != nil {
		v = v.WithMeta("region", *region)
	}
	return v, nil
}
