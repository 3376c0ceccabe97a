package render

import (
	"io"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
)

// outlineOffsets are the passes that paint the light halo behind label text.
var outlineOffsets = [][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, 1}, {-1, 1}, {1, -1}}

// PNGExporter rasterises the canvas with gg.
type PNGExporter struct {
	proj  Projection
	style Style
}

func NewPNGExporter(proj Projection, style Style) *PNGExporter {
	return &PNGExporter{proj: proj, style: style}
}

func (e *PNGExporter) Format() string {
	return "png"
}

// Export implements Exporter.
func (e *PNGExporter) Export(w io.Writer, c *Canvas) error {
	width, height := e.proj.Size()
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(e.style.Face)

	for _, p := range c.Primitives() {
		switch p.Kind {
		case KindPolygon:
			e.polygon(dc, p.Polygon)
		case KindMarker:
			x, y := e.proj.Project(p.Points[0])
			dc.SetRGBA(1, 0, 0, 0.5)
			dc.DrawCircle(x, y, markerRadius)
			dc.Fill()
		case KindLine:
			x1, y1 := e.proj.Project(p.Points[0])
			x2, y2 := e.proj.Project(p.Points[1])
			dc.SetRGBA(1, 0, 0, 0.5)
			dc.SetLineWidth(1)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		case KindText:
			x, y := e.proj.Project(p.Points[0])
			dc.SetRGBA(1, 1, 1, 0.4)
			for _, off := range outlineOffsets {
				dc.DrawStringAnchored(p.Text, x+off[0], y+off[1], 0.5, 0.5)
			}
			dc.SetRGB(0, 0, 0)
			dc.DrawStringAnchored(p.Text, x, y, 0.5, 0.5)
		case KindTitle:
			dc.SetRGB(0, 0, 0)
			dc.DrawStringAnchored(p.Text, float64(width)/2, titleMargin, 0.5, 0.5)
		}
	}

	return dc.EncodePNG(w)
}

func (e *PNGExporter) polygon(dc *gg.Context, poly orb.Polygon) {
	dc.NewSubPath()
	for _, ring := range poly {
		for i, pt := range ring {
			x, y := e.proj.Project(pt)
			if i == 0 {
				dc.MoveTo(x, y)
				continue
			}
			dc.LineTo(x, y)
		}
		dc.ClosePath()
	}
	dc.SetFillRuleEvenOdd()
	dc.SetRGB255(173, 216, 230)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, 0.2)
	dc.SetLineWidth(1)
	dc.Stroke()
}
