package render

import "github.com/paulmach/orb"

// Kind identifies a drawing primitive.
type Kind int

const (
	KindPolygon Kind = iota
	KindMarker
	KindText
	KindLine
	KindTitle
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindMarker:
		return "marker"
	case KindText:
		return "text"
	case KindLine:
		return "line"
	case KindTitle:
		return "title"
	default:
		return "unknown"
	}
}

// Primitive is one drawing instruction in canvas units.
type Primitive struct {
	Kind    Kind
	Points  []orb.Point // Points holds one point for markers and text, two for lines.
	Polygon orb.Polygon // Polygon is set for KindPolygon.
	Text    string
}

// Canvas is an append-only list of primitives over a fixed extent.
type Canvas struct {
	bounds     orb.Bound
	primitives []Primitive
}

// NewCanvas creates an empty canvas.
func NewCanvas(bounds orb.Bound) *Canvas {
	return &Canvas{bounds: bounds}
}

// Bounds returns the canvas extent.
func (c *Canvas) Bounds() orb.Bound {
	return c.bounds
}

func (c *Canvas) AddPolygon(p orb.Polygon) {
	c.primitives = append(c.primitives, Primitive{Kind: KindPolygon, Polygon: p})
}

func (c *Canvas) AddMarker(p orb.Point) {
	c.primitives = append(c.primitives, Primitive{Kind: KindMarker, Points: []orb.Point{p}})
}

func (c *Canvas) AddText(p orb.Point, text string) {
	c.primitives = append(c.primitives, Primitive{Kind: KindText, Points: []orb.Point{p}, Text: text})
}

func (c *Canvas) AddLine(from, to orb.Point) {
	c.primitives = append(c.primitives, Primitive{Kind: KindLine, Points: []orb.Point{from, to}})
}

func (c *Canvas) AddTitle(text string) {
	c.primitives = append(c.primitives, Primitive{Kind: KindTitle, Text: text})
}

// Primitives returns a copy of the primitives in drawing order.
func (c *Canvas) Primitives() []Primitive {
	out := make([]Primitive, len(c.primitives))
	copy(out, c.primitives)
	return out
}

// Count returns the number of primitives of a kind.
func (c *Canvas) Count(kind Kind) int {
	n := 0
	for _, p := range c.primitives {
		if p.Kind == kind {
			n++
		}
	}
	return n
}
