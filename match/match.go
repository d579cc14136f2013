// Package match defines the contracts between the inspection engine and
// an image-matching library: images, stored patterns, regions, and the
// Matcher that searches for patterns in images.
//
// This package deliberately contains no pixel-level algorithms.  A real
// matcher (template correlation, keypoint/homography, contour shapes)
// lives elsewhere and merely has to satisfy the Matcher interface.
package match

import "context"

// Point is a position in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Found is one ranked result of a pattern search.
type Found struct {
	// Position is where the pattern's anchor landed.
	Position Point `json:"position"`

	// Score is the match confidence in [0,1].
	Score float64 `json:"score"`

	// Angle is the rotation (degrees) of the match, if the matcher
	// estimates one.
	Angle *float64 `json:"angle,omitempty"`

	// Scale is the scale factor of the match, if the matcher
	// estimates one.
	Scale *float64 `json:"scale,omitempty"`

	// Corners are the four transformed corners of the pattern in
	// image coordinates, if the matcher computes them.
	Corners []Point `json:"corners,omitempty"`
}

// Matcher searches for a pattern in an image.
//
// Results are ranked best-first.  A nil region means the whole image.
// An empty result slice is a negative search result, not an error;
// errors are reserved for execution problems (bad pattern, matcher
// failure).
//
// Implementations must be safe for concurrent Search calls or document
// otherwise.  Any per-pattern feature cache inside a matcher needs its
// own synchronization.
type Matcher interface {
	Search(ctx context.Context, img Image, p *Pattern, region *Region) ([]Found, error)
}

// FuncMatcher wraps a Go function as a Matcher.
type FuncMatcher struct {
	F func(ctx context.Context, img Image, p *Pattern, region *Region) ([]Found, error)
}

func (m *FuncMatcher) Search(ctx context.Context, img Image, p *Pattern, region *Region) ([]Found, error) {
	return m.F(ctx, img, p, region)
}
