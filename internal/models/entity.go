package models

import "github.com/paulmach/orb"

// Entity is a named geographic area after overrides have been applied.
// Text always holds a position: when no preferred text point was configured
// it equals Anchor.
type Entity struct {
	Key    string      // Key is the canonical name of the entity.
	Anchor Coordinates // Anchor is the true location of the entity.
	Text   Coordinates // Text is the preferred text location of the entity.
}

// HasPinnedText reports whether the entity carries a text position distinct from its anchor.
func (e Entity) HasPinnedText() bool {
	return e.Text != e.Anchor
}

// CentroidRecord is one row of a base or override record set. Every coordinate is optional
// so that the same shape can describe a sparse override.
type CentroidRecord struct {
	Name          string   `json:"name"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	TextLatitude  *float64 `json:"text_latitude"`
	TextLongitude *float64 `json:"text_longitude"`
}

// Placement is a label derived from an entity at render time. Positions are canvas points.
type Placement struct {
	Key     string    // Key is the canonical key of the entity.
	Label   string    // Label is the text drawn on the canvas.
	Initial orb.Point // Initial is the text position before layout.
	Final   orb.Point // Final is the text position after layout.
	Anchor  orb.Point // Anchor is copied from the entity and never moves.
	Pinned  bool      // Pinned labels were kept out of the layout engine.
}

// Connector is a line from a displaced text position back to its anchor.
type Connector struct {
	From orb.Point
	To   orb.Point
}
