package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
)

const (
	markerRadius = 2
	titleMargin  = 40
)

// Exporter writes a canvas in one file format.
type Exporter interface {
	Format() string
	Export(w io.Writer, c *Canvas) error
}

// Style holds the settings shared by exporters.
type Style struct {
	FontSize float64 // FontSize is the label size in points.
	DPI      float64
	Face     font.Face // Face is used by raster exporters.
}

func (s Style) pixelSize() float64 {
	return s.FontSize * s.DPI / 72
}

// NewExporter creates an exporter for a file format.
func NewExporter(format string, proj Projection, style Style) (Exporter, error) {
	switch format {
	case "svg":
		return NewSVGExporter(proj, style), nil
	case "png":
		if style.Face == nil {
			return nil, fmt.Errorf("png export needs a font face")
		}
		return NewPNGExporter(proj, style), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportFile writes the canvas to dir/<name>.<format> and returns the file path.
func ExportFile(dir, name string, e Exporter, c *Canvas) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name+"."+e.Format())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err = e.Export(f, c); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to export %s: %w", e.Format(), err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
