package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// VisionState is the outcome state of executing one Rune.
type VisionState int

const (
	// Awakened means the inspection passed.
	Awakened VisionState = iota

	// Dormant means the inspection failed.  This is an expected
	// negative result, not an error.
	Dormant

	// Uncertain is reserved.  The engine never produces it, but a
	// custom aggregator may.
	Uncertain

	// Void means the execution itself failed: missing
	// configuration, missing image, or a panicking matcher.
	Void
)

var visionStateNames = map[VisionState]string{
	Awakened:  "awakened",
	Dormant:   "dormant",
	Uncertain: "uncertain",
	Void:      "void",
}

func (s VisionState) String() string {
	if name, have := visionStateNames[s]; have {
		return name
	}
	return fmt.Sprintf("VisionState(%d)", int(s))
}

// ParseVisionState maps a state name back to a VisionState.
func ParseVisionState(name string) (VisionState, error) {
	for s, n := range visionStateNames {
		if n == name {
			return s, nil
		}
	}
	return Void, fmt.Errorf("unknown vision state %q", name)
}

func (s VisionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *VisionState) UnmarshalJSON(bs []byte) error {
	var name string
	if err := json.Unmarshal(bs, &name); err != nil {
		return err
	}
	parsed, err := ParseVisionState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Vision is the immutable outcome of executing one Rune.
//
// Position, Angle, and Scale are independently optional: a matcher
// that estimates no rotation simply leaves Angle nil.
type Vision struct {
	// Name is the name of the Rune that produced this Vision.
	Name string `json:"name"`

	State VisionState `json:"state"`

	// Resonance is the confidence in [0,1].  For aggregation it is
	// only meaningful when State is Awakened, but it is stored as
	// reported regardless.
	Resonance float64 `json:"resonance"`

	Elapsed time.Duration `json:"elapsed"`

	Message string `json:"message,omitempty"`

	Position *match.Point `json:"position,omitempty"`
	Angle    *float64     `json:"angle,omitempty"`
	Scale    *float64     `json:"scale,omitempty"`

	// Text carries a recognized string (OCR and the like).
	Text string `json:"text,omitempty"`

	// Measurement carries a numeric reading.
	Measurement *float64 `json:"measurement,omitempty"`

	Meta map[string]interface{} `json:"meta,omitempty"`
}

// NewAwakened makes a passing Vision.
func NewAwakened(name string, resonance float64, message string) Vision {
	return Vision{
		Name:      name,
		State:     Awakened,
		Resonance: resonance,
		Message:   message,
	}
}

// NewDormant makes a failing Vision.  Resonance is forced to zero.
func NewDormant(name string, message string) Vision {
	return Vision{
		Name:    name,
		State:   Dormant,
		Message: message,
	}
}

// NewVoid makes an execution-error Vision.  Resonance is forced to
// zero.
func NewVoid(name string, message string) Vision {
	return Vision{
		Name:    name,
		State:   Void,
		Message: message,
	}
}

// WithMeta returns a copy of the Vision with the given key set.
func (v Vision) WithMeta(key string, value interface{}) Vision {
	meta := make(map[string]interface{}, len(v.Meta)+1)
	for k, x := range v.Meta {
		meta[k] = x
	}
	meta[key] = value
	v.Meta = meta
	return v
}
