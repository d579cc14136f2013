package core

import (
	"time"
)

// Prophecy is the aggregated verdict of one Ritual execution.
//
// A Prophecy is created fresh per execution and never mutated
// afterwards.
type Prophecy struct {
	// Ritual is the name of the Ritual that produced this verdict.
	Ritual string `json:"ritual"`

	State VisionState `json:"state"`

	// Resonance is the mean resonance of the collected Visions when
	// the verdict is Awakened, else zero.
	Resonance float64 `json:"resonance"`

	When    time.Time     `json:"when"`
	Elapsed time.Duration `json:"elapsed"`

	// Visions are the collected step results in execution order.
	Visions []Vision `json:"visions"`

	Message string `json:"message,omitempty"`
}

func voidProphecy(ritual, message string, started time.Time) *Prophecy {
	return &Prophecy{
		Ritual:  ritual,
		State:   Void,
		When:    started,
		Elapsed: time.Since(started),
		Message: message,
	}
}
