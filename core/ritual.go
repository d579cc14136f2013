package core

import (
	"context"
	"fmt"
	"time"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// Strategy is the policy for folding a Ritual's Visions into one
// verdict.
type Strategy int

const (
	// AllMustAwaken passes only if every collected Vision is
	// Awakened.
	AllMustAwaken Strategy = iota

	// AnyAwakened passes if at least one collected Vision is
	// Awakened.
	AnyAwakened

	// MajorityAwakened passes if strictly more than half of the
	// collected Visions are Awakened.  A tie is Dormant.
	MajorityAwakened

	// Custom delegates the verdict to the Ritual's Aggregator.
	Custom
)

func (s Strategy) String() string {
	switch s {
	case AllMustAwaken:
		return "allMustAwaken"
	case AnyAwakened:
		return "anyAwakened"
	case MajorityAwakened:
		return "majorityAwakened"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name back to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "allMustAwaken", "":
		return AllMustAwaken, nil
	case "anyAwakened":
		return AnyAwakened, nil
	case "majorityAwakened":
		return MajorityAwakened, nil
	case "custom":
		return Custom, nil
	}
	return AllMustAwaken, fmt.Errorf("unknown strategy %q", name)
}

// Aggregator computes a verdict for the Custom strategy.
//
// The engine does not define what Custom means; the caller does, either
// directly in Go or via a scripted aggregator (see interpreters/goja).
type Aggregator interface {
	Aggregate(ctx context.Context, visions []Vision) (VisionState, error)
}

// AggregatorFunc wraps a Go function as an Aggregator.
type AggregatorFunc func(ctx context.Context, visions []Vision) (VisionState, error)

func (f AggregatorFunc) Aggregate(ctx context.Context, visions []Vision) (VisionState, error) {
	return f(ctx, visions)
}

// Ritual is an ordered sequence of Runes plus an aggregation policy.
//
// A Ritual is configured once and executed many times; each execution
// gets its own RuneContext, so distinct executions may run concurrently
// as long as the underlying matcher tolerates that.
type Ritual struct {
	Name string `json:"name"`

	// Doc is optional markdown describing the inspection.
	Doc string `json:"doc,omitempty"`

	Strategy Strategy `json:"strategy"`

	// StopOnFirstDormant stops the sequence at the first failing
	// Rune.  A Void Vision always stops the sequence.
	StopOnFirstDormant bool `json:"stopOnFirstDormant,omitempty"`

	// Aggregator is consulted only for the Custom strategy.
	Aggregator Aggregator `json:"-"`

	runes []*Rune
}

// NewRitual makes an empty Ritual.
func NewRitual(name string) *Ritual {
	return &Ritual{
		Name: name,
	}
}

// Add appends a Rune.  Names must be unique within the Ritual, and the
// Ritual's own name is reserved (see Prophecy.Export).
func (rt *Ritual) Add(r *Rune) error {
	if r.Name == rt.Name {
		return &ReservedName{rt.Name}
	}
	for _, have := range rt.runes {
		if have.Name == r.Name {
			return &DuplicateRune{rt.Name, r.Name}
		}
	}
	rt.runes = append(rt.runes, r)
	return nil
}

// Runes returns the ordered Runes.
func (rt *Ritual) Runes() []*Rune {
	return rt.runes
}

// Validate is a pre-flight check.  It returns human-readable problems
// instead of stopping at the first one.
func (rt *Ritual) Validate() []string {
	var problems []string
	if len(rt.runes) == 0 {
		problems = append(problems, "no runes configured")
	}
	if rt.Strategy == Custom && rt.Aggregator == nil {
		problems = append(problems, "no custom aggregator configured")
	}
	for _, r := range rt.runes {
		if err := r.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	return problems
}

// Execute runs the enabled Runes in order over the image and folds
// their Visions into a Prophecy.
func (rt *Ritual) Execute(ctx context.Context, img match.Image) *Prophecy {
	started := time.Now()

	if len(rt.runes) == 0 {
		return voidProphecy(rt.Name, "no runes configured", started)
	}

	rc := NewRuneContext(img)
	visions := make([]Vision, 0, len(rt.runes))

	for _, r := range rt.runes {
		if r.Disabled {
			continue
		}
		v := r.Execute(ctx, rc)
		visions = append(visions, v)
		rc.AddVision(v)

		if v.State == Void {
			// Fatal for this run.
			break
		}
		if v.State == Dormant && rt.StopOnFirstDormant {
			break
		}
	}

	state, message := rt.aggregate(ctx, visions)

	resonance := 0.0
	if state == Awakened && 0 < len(visions) {
		sum := 0.0
		for _, v := range visions {
			sum += v.Resonance
		}
		resonance = sum / float64(len(visions))
	}

	return &Prophecy{
		Ritual:    rt.Name,
		State:     state,
		Resonance: resonance,
		When:      started,
		Elapsed:   time.Since(started),
		Visions:   visions,
		Message:   message,
	}
}

func (rt *Ritual) aggregate(ctx context.Context, visions []Vision) (VisionState, string) {
	awakened := 0
	for _, v := range visions {
		switch v.State {
		case Void:
			return Void, v.Message
		case Awakened:
			awakened++
		}
	}

	switch rt.Strategy {
	case AllMustAwaken:
		if awakened == len(visions) && 0 < len(visions) {
			return Awakened, fmt.Sprintf("%d/%d awakened", awakened, len(visions))
		}
		return Dormant, fmt.Sprintf("%d/%d awakened", awakened, len(visions))
	case AnyAwakened:
		if 0 < awakened {
			return Awakened, fmt.Sprintf("%d/%d awakened", awakened, len(visions))
		}
		return Dormant, "none awakened"
	case MajorityAwakened:
		if len(visions) < 2*awakened {
			return Awakened, fmt.Sprintf("majority: %d/%d awakened", awakened, len(visions))
		}
		return Dormant, fmt.Sprintf("no majority: %d/%d awakened", awakened, len(visions))
	case Custom:
		if rt.Aggregator == nil {
			return Void, "no custom aggregator configured"
		}
		state, err := rt.Aggregator.Aggregate(ctx, visions)
		if err != nil {
			return Void, err.Error()
		}
		return state, fmt.Sprintf("custom: %s", state)
	}

	return Void, fmt.Sprintf("unknown strategy %d", int(rt.Strategy))
}
