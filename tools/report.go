// Package tools has development and reporting utilities that are not
// needed at inspection time.
package tools

import (
	"fmt"
	"io"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/core"

	md "github.com/russross/blackfriday/v2"
)

// RenderRitualHTML writes an HTML description of the Ritual: its doc
// (markdown), its Runes, and optionally the latest Prophecy.
//
// The output is a fragment meant to be embedded in a page that brings
// its own styling.
func RenderRitualHTML(rt *core.Ritual, p *core.Prophecy, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<div class="ritual"><h2>%s</h2>`, rt.Name)
	if rt.Doc != "" {
		f(`<div class="ritualDoc doc">%s</div>`, md.Run([]byte(rt.Doc)))
	}
	f(`<div>strategy: <code>%s</code></div>`, rt.Strategy)

	f(`<table class="runes">`)
	for _, r := range rt.Runes() {
		f(`<tr class="rune"><td><span class="runeName">%s</span></td><td>`, r.Name)
		if r.Doc != "" {
			f(`<div class="runeDoc doc">%s</div>`, md.Run([]byte(r.Doc)))
		}
		if r.Disabled {
			f(`<div class="disabled">disabled</div>`)
		}
		f(`<div>threshold: <code>%.3f</code></div>`, r.MinResonance)
		f(`</td></tr>`)
	}
	f(`</table>`)

	if p != nil {
		f(`<div class="prophecy state-%s">`, p.State)
		f(`<div>verdict: <code>%s</code> (resonance %.3f, %v)</div>`, p.State, p.Resonance, p.Elapsed)
		if p.Message != "" {
			f(`<div class="message">%s</div>`, p.Message)
		}
		f(`<table class="visions">`)
		for _, v := range p.Visions {
			f(`<tr><td>%s</td><td>%s</td><td>%.3f</td><td>%v</td><td>%s</td></tr>`,
				v.Name, v.State, v.Resonance, v.Elapsed, v.Message)
		}
		f(`</table>`)
		f(`</div>`)
	}

	f(`</div>`)

	return nil
}
