package core

import (
	"strconv"
)

// Export flattens the Prophecy into a string-keyed map for a
// presentation layer.
//
// The key shapes "<step>.Found", "<step>.Score", "<step>.X",
// "<step>.Y", "<step>.Angle", and "<step>.Scale" are a compatibility
// contract; pose keys appear only when the Vision carries the field.
// The ritual's own verdict is exported under the ritual name using the
// same shapes, so that name is reserved: Ritual.Add rejects a rune
// named like its ritual.
func (p *Prophecy) Export() map[string]string {
	acc := make(map[string]string, 2+6*len(p.Visions))

	acc[p.Ritual+".Found"] = strconv.FormatBool(p.State == Awakened)
	acc[p.Ritual+".Score"] = formatScore(p.Resonance)

	for _, v := range p.Visions {
		exportVision(acc, v)
	}
	return acc
}

func exportVision(acc map[string]string, v Vision) {
	found := v.State == Awakened
	if x, have := v.Meta["found"]; have {
		if b, is := x.(bool); is {
			found = b
		}
	}
	acc[v.Name+".Found"] = strconv.FormatBool(found)
	acc[v.Name+".Score"] = formatScore(v.Resonance)

	if v.Position != nil {
		acc[v.Name+".X"] = formatScore(v.Position.X)
		acc[v.Name+".Y"] = formatScore(v.Position.Y)
	}
	if v.Angle != nil {
		acc[v.Name+".Angle"] = formatScore(*v.Angle)
	}
	if v.Scale != nil {
		acc[v.Name+".Scale"] = formatScore(*v.Scale)
	}
}

func formatScore(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
