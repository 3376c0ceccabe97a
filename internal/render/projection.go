package render

import (
	"math"

	"github.com/paulmach/orb"
)

// Projection maps canvas units (longitude, latitude) onto an equirectangular
// pixel grid with the origin at the top left.
type Projection struct {
	bounds orb.Bound
	width  int
	height int
	scale  float64
}

// NewProjection creates a projection for an image of the given pixel width.
// The height follows from the aspect ratio of bounds.
func NewProjection(bounds orb.Bound, width int) Projection {
	lonSpan := bounds.Max.X() - bounds.Min.X()
	latSpan := bounds.Max.Y() - bounds.Min.Y()
	scale := float64(width) / lonSpan
	return Projection{
		bounds: bounds,
		width:  width,
		height: int(math.Round(latSpan * scale)),
		scale:  scale,
	}
}

// Project returns the pixel position of p.
func (p Projection) Project(pt orb.Point) (float64, float64) {
	return (pt.X() - p.bounds.Min.X()) * p.scale, (p.bounds.Max.Y() - pt.Y()) * p.scale
}

// Scale returns pixels per canvas unit.
func (p Projection) Scale() float64 {
	return p.scale
}

// Size returns the image size in pixels.
func (p Projection) Size() (int, int) {
	return p.width, p.height
}
