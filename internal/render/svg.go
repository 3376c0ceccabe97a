package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
)

const (
	svgPolygonStyle = "fill:lightblue;stroke:black;stroke-opacity:0.2;fill-rule:evenodd"
	svgMarkerStyle  = "fill:red;fill-opacity:0.5"
	svgLineStyle    = "stroke:red;stroke-opacity:0.5;stroke-width:1"
	svgOutlineStyle = "fill:black;stroke:white;stroke-opacity:0.4;stroke-width:2;paint-order:stroke"
)

// SVGExporter writes the canvas as an SVG document.
type SVGExporter struct {
	proj  Projection
	style Style
}

func NewSVGExporter(proj Projection, style Style) *SVGExporter {
	return &SVGExporter{proj: proj, style: style}
}

func (e *SVGExporter) Format() string {
	return "svg"
}

// Export implements Exporter.
func (e *SVGExporter) Export(w io.Writer, c *Canvas) error {
	width, height := e.proj.Size()
	doc := svg.New(w)
	doc.Start(width, height)
	doc.Rect(0, 0, width, height, "fill:white")

	textStyle := fmt.Sprintf("font-family:sans-serif;font-size:%.1fpx;text-anchor:middle;dominant-baseline:central;%s",
		e.style.pixelSize(), svgOutlineStyle)

	for _, p := range c.Primitives() {
		switch p.Kind {
		case KindPolygon:
			doc.Path(e.path(p.Polygon), svgPolygonStyle)
		case KindMarker:
			x, y := e.point(p.Points[0])
			doc.Circle(x, y, markerRadius, svgMarkerStyle)
		case KindLine:
			x1, y1 := e.point(p.Points[0])
			x2, y2 := e.point(p.Points[1])
			doc.Line(x1, y1, x2, y2, svgLineStyle)
		case KindText:
			x, y := e.point(p.Points[0])
			doc.Text(x, y, p.Text, textStyle)
		case KindTitle:
			doc.Text(width/2, titleMargin, p.Text,
				fmt.Sprintf("font-family:sans-serif;font-size:%.1fpx;text-anchor:middle", 2*e.style.pixelSize()))
		}
	}

	doc.End()
	return nil
}

func (e *SVGExporter) point(pt orb.Point) (int, int) {
	x, y := e.proj.Project(pt)
	return int(math.Round(x)), int(math.Round(y))
}

func (e *SVGExporter) path(poly orb.Polygon) string {
	var b strings.Builder
	for _, ring := range poly {
		for i, pt := range ring {
			x, y := e.point(pt)
			if i == 0 {
				fmt.Fprintf(&b, "M%d %d", x, y)
				continue
			}
			fmt.Fprintf(&b, " L%d %d", x, y)
		}
		b.WriteString(" Z ")
	}
	return strings.TrimSpace(b.String())
}
