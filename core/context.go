package core

import (
	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"
)

// RuneContext is the mutable state threaded through one Ritual
// execution.
//
// A RuneContext belongs to exactly one execution.  Distinct executions
// get distinct contexts, so concurrent Ritual runs never interfere; a
// RuneContext itself is not safe for concurrent use and doesn't need to
// be.
type RuneContext struct {
	// Image is the frame under inspection.  Required before any
	// Rune runs.
	Image match.Image

	// RefPosition, RefAngle, and RefScale form the reference pose.
	// Only Awakened Visions update them; see AddVision.
	RefPosition *match.Point
	RefAngle    *float64
	RefScale    *float64

	// Region is the dynamic region-of-interest published by a
	// Locate Rune for later Runes.
	Region *match.Region

	// Visions holds prior results of this execution by Rune name.
	Visions map[string]Vision

	// Data is freeform shared state for cooperating Runes.
	Data map[string]interface{}
}

// NewRuneContext makes a context for one execution over the given
// image.
func NewRuneContext(img match.Image) *RuneContext {
	return &RuneContext{
		Image:   img,
		Visions: make(map[string]Vision),
		Data:    make(map[string]interface{}),
	}
}

// AddVision records the Vision under its Rune name, overwriting any
// prior entry of the same name.
//
// If and only if the Vision is Awakened, whichever pose fields it
// carries refresh the reference pose.  Fields the Vision doesn't carry
// are left alone, and a later Dormant or Void Vision never erases a
// pose recorded earlier.
func (rc *RuneContext) AddVision(v Vision) {
	if rc.Visions == nil {
		rc.Visions = make(map[string]Vision)
	}
	rc.Visions[v.Name] = v

	if v.State != Awakened {
		return
	}
	if v.Position != nil {
		p := *v.Position
		rc.RefPosition = &p
	}
	if v.Angle != nil {
		a := *v.Angle
		rc.RefAngle = &a
	}
	if v.Scale != nil {
		s := *v.Scale
		rc.RefScale = &s
	}
}

// Vision looks up a prior result by Rune name.
func (rc *RuneContext) Vision(name string) (Vision, bool) {
	v, have := rc.Visions[name]
	return v, have
}

// Reset clears the context for reuse: image, reference pose, dynamic
// region, prior Visions, and shared data.
func (rc *RuneContext) Reset() {
	rc.Image = nil
	rc.RefPosition = nil
	rc.RefAngle = nil
	rc.RefScale = nil
	rc.Region = nil
	rc.Visions = make(map[string]Vision)
	rc.Data = make(map[string]interface{})
}
