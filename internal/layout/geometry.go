package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// goldenAngle spreads fallback directions for boxes sharing a centre.
const goldenAngle = 2.399963229728653

func vec(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// overlaps reports whether two boxes given by centre and half extents intersect.
// Touching edges do not count.
func overlaps(ca, ha, cb, hb r2.Vec) bool {
	return math.Abs(ca.X-cb.X) < ha.X+hb.X && math.Abs(ca.Y-cb.Y) < ha.Y+hb.Y
}

// overlapArea returns the intersection area of two boxes.
func overlapArea(ca, ha, cb, hb r2.Vec) float64 {
	w := ha.X + hb.X - math.Abs(ca.X-cb.X)
	h := ha.Y + hb.Y - math.Abs(ca.Y-cb.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// separation returns the unit direction pushing a box away from another along the
// line between their centres, and the distance it must travel along it so that
// the centre offset d covers the combined half extents ext on at least one axis.
// Coincident centres get a deterministic direction derived from salt.
func separation(d, ext r2.Vec, salt int) (r2.Vec, float64) {
	dir := d
	if dir.X == 0 && dir.Y == 0 {
		angle := float64(salt) * goldenAngle
		dir = vec(math.Cos(angle), math.Sin(angle))
	}
	u := r2.Unit(dir)

	dist := math.Inf(1)
	if u.X != 0 {
		dist = math.Min(dist, (ext.X-math.Abs(d.X))/math.Abs(u.X))
	}
	if u.Y != 0 {
		dist = math.Min(dist, (ext.Y-math.Abs(d.Y))/math.Abs(u.Y))
	}
	return u, math.Max(dist, 0)
}

// clamp keeps a box inside the canvas. A box wider than the canvas is centred.
func clamp(c, half r2.Vec, bounds r2.Box) r2.Vec {
	return vec(clampAxis(c.X, half.X, bounds.Min.X, bounds.Max.X), clampAxis(c.Y, half.Y, bounds.Min.Y, bounds.Max.Y))
}

func clampAxis(v, half, lo, hi float64) float64 {
	if hi-lo <= 2*half {
		return (lo + hi) / 2
	}
	return math.Min(math.Max(v, lo+half), hi-half)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
