package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// PresenceMode says whether a Presence Rune wants the pattern there or
// not there.
type PresenceMode int

const (
	MustBePresent PresenceMode = iota
	MustBeAbsent
)

func (m PresenceMode) String() string {
	switch m {
	case MustBePresent:
		return "mustBePresent"
	case MustBeAbsent:
		return "mustBeAbsent"
	}
	return fmt.Sprintf("PresenceMode(%d)", int(m))
}

// Presence makes a binary present/absent decision about a pattern.
type Presence struct {
	Pattern *match.Pattern `json:"pattern,omitempty"`
	Matcher match.Matcher  `json:"-" yaml:"-"`

	// Region optionally restricts the search.
	Region *match.Region `json:"region,omitempty"`

	Mode PresenceMode `json:"mode"`
}

func (c *Presence) Check(r *Rune) error {
	if c.Pattern == nil {
		return &BadRune{r, "no pattern configured"}
	}
	if c.Matcher == nil {
		return &BadRune{r, "no matcher configured"}
	}
	if c.Mode != MustBePresent && c.Mode != MustBeAbsent {
		return &BadRune{r, fmt.Sprintf("unknown presence mode %d", int(c.Mode))}
	}
	return nil
}

func (c *Presence) Divine(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error) {
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

	min := threshold(r, c.Pattern)
	found := 0 < len(fs) && min <= fs[0].Score

	var v Vision
	switch c.Mode {
	case MustBeAbsent:
		if found {
			v = NewDormant(r.Name, fmt.Sprintf("pattern %q present but must be absent", c.Pattern.Name))
		} else {
			// Absence is a certain observation, not a graded
			// score.
			v = NewAwakened(r.Name, 1.0, fmt.Sprintf("pattern %q absent", c.Pattern.Name))
		}
	default:
		if found {
			v = NewAwakened(r.Name, fs[0].Score, fmt.Sprintf("pattern %q present", c.Pattern.Name))
			pos := fs[0].Position
			v.Position = &pos
		} else {
			v = NewDormant(r.Name, fmt.Sprintf("pattern %q absent but must be present", c.Pattern.Name))
		}
	}

	v = v.WithMeta("mode", c.Mode.String())
	v = v.WithMeta("found", found)
	return v, nil
}
