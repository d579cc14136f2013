package core

import (
	"context"
	"fmt"
	"time"
)

// Craft is the variant-specific heart of a Rune.
//
// The set of crafts is closed: Locate, Match, and Presence.  A Craft
// only implements the interesting part of a step; the guard clauses,
// timing, and panic capture around it belong to Rune.Execute and are
// the same for every variant.
type Craft interface {
	// Divine performs the inspection.  Any returned error, and any
	// panic, becomes a Void Vision at the Rune boundary.
	Divine(ctx context.Context, rc *RuneContext, r *Rune) (Vision, error)

	// Check reports a configuration problem, if any.
	Check(r *Rune) error
}

// Rune is one elementary inspection step.
//
// A Rune is configured once and reused across many executions.  All
// per-execution state lives in the RuneContext.
type Rune struct {
	// Name must be unique within the owning Ritual.
	Name string `json:"name"`

	// Doc is optional markdown describing what this Rune checks.
	Doc string `json:"doc,omitempty"`

	// Disabled Runes yield a Dormant Vision without running.
	Disabled bool `json:"disabled,omitempty"`

	// MinResonance is the acceptance threshold in [0,1].
	MinResonance float64 `json:"minResonance"`

	Craft Craft `json:"-"`
}

// Execute runs the Rune against the context.
//
// This is the uniform wrapper around every Craft: a disabled Rune is
// Dormant without starting the timer, a missing image is Void, and a
// Craft error or panic is converted to a Void Vision right here.
// Nothing escapes to the Ritual.
func (r *Rune) Execute(ctx context.Context, rc *RuneContext) (vision Vision) {
	if r.Disabled {
		return NewDormant(r.Name, "rune is disabled")
	}
	if rc == nil || rc.Image == nil {
		return NewVoid(r.Name, "no image in context")
	}
	if r.Craft == nil {
		return NewVoid(r.Name, "no craft configured")
	}

	started := time.Now()
	defer func() {
		if x := recover(); x != nil {
			vision = NewVoid(r.Name, fmt.Sprintf("%v", x))
		}
		vision.Elapsed = time.Since(started)
	}()

	v, err := r.Craft.Divine(ctx, rc, r)
	if err != nil {
		return NewVoid(r.Name, err.Error())
	}
	return v
}

// Validate checks the Rune's own configuration and then delegates to
// the Craft.
func (r *Rune) Validate() error {
	if r.Name == "" {
		return &BadRune{r, "no name"}
	}
	if r.MinResonance < 0 || 1 < r.MinResonance {
		return &BadRune{r, fmt.Sprintf("threshold %v not in [0,1]", r.MinResonance)}
	}
	if r.Craft == nil {
		return &BadRune{r, "no craft configured"}
	}
	return r.Craft.Check(r)
}
