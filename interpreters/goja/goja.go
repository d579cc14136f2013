// Package goja provides a core.Aggregator driven by ECMAScript, so a
// deployment can define the Custom aggregation strategy in its runtime
// configuration instead of recompiling.
//
// See https://github.com/dop251/goja.
package goja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/core"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Aggregate if the script is
	// interrupted by context cancellation.
	Interrupted = errors.New(InterruptedMessage)
)

// Aggregator compiles an ECMAScript source once and evaluates it per
// Prophecy.
//
// The script sees, at _:
//
//	visions: the collected Visions as an array of plain objects
//	          ({name, state, resonance, message, meta, ...}).
//	log(x):  log the given value as JSON.
//
// The script's value is the verdict: one of the strings "awakened",
// "dormant", "uncertain", or "void", or a boolean (true means
// awakened, false means dormant).
type Aggregator struct {
	src     string
	program *goja.Program
}

// NewAggregator compiles the source.
//
// The source is the body of a function, so a final `return` gives the
// verdict.
func NewAggregator(src string) (*Aggregator, error) {
	program, err := goja.Compile("", wrapSrc(src), true)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", err, src)
	}
	return &Aggregator{
		src:     src,
		program: program,
	}, nil
}

func wrapSrc(src string) string {
	return "(function(){\n" + src + "\n}())"
}

// Aggregate implements core.Aggregator.
func (a *Aggregator) Aggregate(ctx context.Context, visions []core.Vision) (core.VisionState, error) {
	env := map[string]interface{}{
		"visions": visionMaps(visions),
	}
	env["log"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		js, err := json.Marshal(&x)
		if err != nil {
			log.Println("goja.log (can't marshal: " + err.Error() + ")")
		} else {
			log.Println(string(js))
		}
		return x
	}

	o := goja.New()
	o.Set("_", env)

	if ctx != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				o.Interrupt(InterruptedMessage)
			case <-done:
			}
		}()
	}

	value, err := o.RunProgram(a.program)
	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return core.Void, Interrupted
		}
		return core.Void, err
	}

	return asState(value.Export())
}

func asState(x interface{}) (core.VisionState, error) {
	switch vv := x.(type) {
	case bool:
		if vv {
			return core.Awakened, nil
		}
		return core.Dormant, nil
	case string:
		return core.ParseVisionState(vv)
	}
	return core.Void, fmt.Errorf("bad aggregator verdict (%T)", x)
}

// visionMaps converts Visions to plain maps via their JSON encoding so
// that the script sees the same field names as every other consumer.
func visionMaps(visions []core.Vision) []map[string]interface{} {
	acc := make([]map[string]interface{}, 0, len(visions))
	for _, v := range visions {
		js, err := json.Marshal(&v)
		if err != nil {
			continue
		}
		m := make(map[string]interface{})
		if err := json.Unmarshal(js, &m); err != nil {
			continue
		}
		acc = append(acc, m)
	}
	return acc
}
