package text

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Options configures one Draw call.
type Options struct {
	// Name is the registered family name. Empty or unknown names use
	// the built-in face.
	Name string

	// Size is the font size in pixels. Ignored by the built-in face.
	Size float64

	// AntiAlias selects full hinting and smooth rendering.
	AntiAlias bool
}

// fallbackFace returns the built-in face used when no registered font
// matches.
func fallbackFace() font.Face {
	return basicfont.Face7x13
}

// newFace builds a sized face for a registered source.
func newFace(src *Source, size float64, antiAlias bool) (font.Face, error) {
	hinting := font.HintingFull
	if !antiAlias {
		hinting = font.HintingNone
	}
	face, err := opentype.NewFace(src.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face: %w", err)
	}
	return face, nil
}

// Draw renders text with its top-left corner at (x, y). Text whose
// paragraph base direction is right-to-left is right-aligned at the
// anchor instead.
func (o Options) Draw(dst draw.Image, s string, x, y float64, col color.Color) error {
	if s == "" {
		return nil
	}

	face, closer, err := o.resolve()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	metrics := face.Metrics()
	baseline := y + fixedToFloat(metrics.Ascent)

	if baseDirection(s) == bidi.RightToLeft {
		x -= o.advance(s)
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(baseline)},
	}
	d.DrawString(s)
	return nil
}

// Measure returns the advance width and line height of s in pixels.
func (o Options) Measure(s string) (w, h float64, err error) {
	face, closer, err := o.resolve()
	if err != nil {
		return 0, 0, err
	}
	if closer != nil {
		defer closer()
	}

	metrics := face.Metrics()
	return o.advance(s), fixedToFloat(metrics.Height), nil
}

// advance prefers the HarfBuzz-shaped advance for registered fonts and
// falls back to the built-in face's metrics otherwise.
func (o Options) advance(s string) float64 {
	if src := Lookup(o.Name); src != nil {
		return Advance(src, s, o.Size)
	}
	return fallbackAdvance(s)
}

// resolve picks the face for the options. The returned closer, if any,
// must be called after drawing.
func (o Options) resolve() (font.Face, func(), error) {
	src := Lookup(o.Name)
	if src == nil {
		return fallbackFace(), nil, nil
	}
	face, err := newFace(src, o.Size, o.AntiAlias)
	if err != nil {
		return nil, nil, err
	}
	return face, func() { _ = face.Close() }, nil
}
