package match

// Pattern is an opaque named template that a Matcher can search for.
//
// Loading and saving patterns is not this package's business.  The
// Template bytes (if any) are only meaningful to the matcher that made
// them.
type Pattern struct {
	Name string `json:"name"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Anchor is the reference offset within the pattern.  A zero
	// Anchor means the top-left corner.
	Anchor Point `json:"anchor,omitempty"`

	// MinScore is the default acceptance threshold for this
	// pattern.  A Rune's own threshold takes precedence.
	MinScore float64 `json:"minScore,omitempty"`

	// Mask optionally marks template pixels to ignore.
	Mask []byte `json:"mask,omitempty"`

	// Contour optionally gives the pattern's outline for
	// shape-based matchers.
	Contour []Point `json:"contour,omitempty"`

	// Template holds the matcher-specific template data.
	Template []byte `json:"-"`
}
