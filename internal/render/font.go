package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// NewFace returns the Go Regular face at size points and dpi.
func NewFace(size, dpi float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// FontMeasurer measures labels with a font face and converts the pixel extent
// into canvas units.
type FontMeasurer struct {
	face  font.Face
	scale float64
}

// NewFontMeasurer creates a measurer for a projection with scale pixels per canvas unit.
func NewFontMeasurer(face font.Face, scale float64) *FontMeasurer {
	return &FontMeasurer{face: face, scale: scale}
}

// Measure implements layout.Measurer.
func (m *FontMeasurer) Measure(label string) (float64, float64) {
	width := float64(font.MeasureString(m.face, label)) / 64
	height := float64(m.face.Metrics().Height) / 64
	return width / m.scale, height / m.scale
}
