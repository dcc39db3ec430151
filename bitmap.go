package bitmap

import (
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/gogpu/bitmap/backend"
	"github.com/gogpu/bitmap/internal/text"
)

// Bitmap owns exactly one platform surface and implements the full
// drawing and query API on top of the backend's primitives. Drawing
// operations return the receiver for chaining; producers (Clone, Crop,
// Resize, Rotate) return a new Bitmap and leave the receiver
// untouched.
//
// A Bitmap is not safe for concurrent use; callers must serialize
// access to one instance. Bitmap implements io.Closer.
type Bitmap struct {
	surface      backend.Surface
	defaultColor ARGB
	disposed     bool
}

var _ io.Closer = (*Bitmap)(nil)

// wrap builds a facade around a surface, inheriting the default color.
func wrap(s backend.Surface, defaultColor ARGB) *Bitmap {
	return &Bitmap{surface: s, defaultColor: defaultColor}
}

func (b *Bitmap) check() error {
	if b.disposed {
		return ErrDisposed
	}
	return nil
}

// Width returns the current width in pixels.
func (b *Bitmap) Width() int {
	if b.disposed {
		return 0
	}
	return b.surface.Width()
}

// Height returns the current height in pixels.
func (b *Bitmap) Height() int {
	if b.disposed {
		return 0
	}
	return b.surface.Height()
}

// Size returns the current dimensions. The value is recomputed from
// the surface on every call, never cached.
func (b *Bitmap) Size() Size {
	return Size{Width: float64(b.Width()), Height: float64(b.Height())}
}

// IsDisposed reports whether Dispose has been called.
func (b *Bitmap) IsDisposed() bool {
	return b.disposed
}

// DefaultColor returns the color used when drawing operations receive
// no color.
func (b *Bitmap) DefaultColor() ARGB {
	return b.defaultColor
}

// SetDefaultColor normalizes v and installs it as the default color.
func (b *Bitmap) SetDefaultColor(v any) error {
	c, err := ParseColor(v)
	if err != nil {
		return err
	}
	b.defaultColor = c
	return nil
}

// Image returns a view of the current pixel content. The returned
// image must not be retained across mutations.
func (b *Bitmap) Image() image.Image {
	if b.disposed {
		return nil
	}
	return b.surface.Image()
}

// normalizeColor resolves an optional color argument: nil means the
// per-instance default; anything else must parse.
func (b *Bitmap) normalizeColor(v any) (uint32, error) {
	if v == nil {
		return b.defaultColor.Packed(), nil
	}
	c, err := ParseColor(v)
	if err != nil {
		return 0, err
	}
	return c.Packed(), nil
}

// paint resolves the stroke/fill pair for a shape. fill stays absent
// only when the caller passed nil.
func (b *Bitmap) paint(stroke, fill any) (backend.Paint, error) {
	s, err := b.normalizeColor(stroke)
	if err != nil {
		return backend.Paint{}, err
	}
	p := backend.Paint{Stroke: s}
	if fill != nil {
		f, err := ParseColor(fill)
		if err != nil {
			return backend.Paint{}, err
		}
		p.Fill = f.Packed()
		p.Filled = true
	}
	return p, nil
}

// region resolves the optional size and leftTop arguments for a
// bounding rect: a missing leftTop is the origin and a missing size is
// the full current extent, computed at call time.
func (b *Bitmap) region(size, leftTop any) (image.Rectangle, error) {
	lt := Point2D{}
	if leftTop != nil {
		p, err := ParsePoint(leftTop)
		if err != nil {
			return image.Rectangle{}, err
		}
		lt = p
	}
	sz := Size{Width: float64(b.surface.Width()), Height: float64(b.surface.Height())}
	if size != nil {
		s, err := ParseSize(size)
		if err != nil {
			return image.Rectangle{}, err
		}
		sz = s
	}
	x := int(math.Round(lt.X))
	y := int(math.Round(lt.Y))
	return image.Rect(x, y, x+int(math.Round(sz.Width)), y+int(math.Round(sz.Height))), nil
}

// DrawLine draws a line between start and end. A nil color uses the
// default color.
func (b *Bitmap) DrawLine(start, end, color any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	p1, err := ParsePoint(start)
	if err != nil {
		return nil, err
	}
	p2, err := ParsePoint(end)
	if err != nil {
		return nil, err
	}
	c, err := b.normalizeColor(color)
	if err != nil {
		return nil, err
	}
	from := image.Pt(int(math.Round(p1.X)), int(math.Round(p1.Y)))
	to := image.Pt(int(math.Round(p2.X)), int(math.Round(p2.Y)))
	if err := b.surface.DrawLine(from, to, c); err != nil {
		return nil, err
	}
	return b, nil
}

// DrawRect draws a rectangle. Nil size means the full extent, nil
// leftTop the origin, nil borderColor the default color, nil fillColor
// no fill.
func (b *Bitmap) DrawRect(size, leftTop, borderColor, fillColor any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	region, err := b.region(size, leftTop)
	if err != nil {
		return nil, err
	}
	p, err := b.paint(borderColor, fillColor)
	if err != nil {
		return nil, err
	}
	if err := b.surface.DrawRect(region, p); err != nil {
		return nil, err
	}
	return b, nil
}

// DrawOval draws the ellipse inscribed in the bounding rect. The same
// defaulting rules as DrawRect apply. A square bounding rect produces
// a circle.
func (b *Bitmap) DrawOval(size, leftTop, borderColor, fillColor any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	region, err := b.region(size, leftTop)
	if err != nil {
		return nil, err
	}
	p, err := b.paint(borderColor, fillColor)
	if err != nil {
		return nil, err
	}
	if err := b.surface.DrawOval(region, p); err != nil {
		return nil, err
	}
	return b, nil
}

// DrawArc draws an arc inside the bounding rect. Angles are in
// degrees; the sweep is a signed delta from the start angle. How the
// arc is closed (pie slice vs chord) is a backend property.
func (b *Bitmap) DrawArc(size, leftTop any, startAngle, sweepAngle float64, borderColor, fillColor any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	region, err := b.region(size, leftTop)
	if err != nil {
		return nil, err
	}
	p, err := b.paint(borderColor, fillColor)
	if err != nil {
		return nil, err
	}
	if err := b.surface.DrawArc(region, startAngle, sweepAngle, p); err != nil {
		return nil, err
	}
	return b, nil
}

// DrawCircle draws a circle by delegating to DrawOval with a square
// bounding rect. A nil center is the geometric center of the bitmap; a
// radius of zero or less derives the radius from the distance between
// the center and the nearest right/bottom edge.
func (b *Bitmap) DrawCircle(radius float64, center, color, fillColor any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	w := float64(b.surface.Width())
	h := float64(b.surface.Height())

	c := Point2D{X: w / 2, Y: h / 2}
	if center != nil {
		p, err := ParsePoint(center)
		if err != nil {
			return nil, err
		}
		c = p
	}
	if radius <= 0 {
		radius = math.Min(w-c.X, h-c.Y) / 2
	}

	size := Size{Width: radius * 2, Height: radius * 2}
	leftTop := Point2D{X: c.X - radius, Y: c.Y - radius}
	return b.DrawOval(size, leftTop, color, fillColor)
}

// SetPoint writes a single pixel. A nil coordinate is the origin and a
// nil color the default color.
func (b *Bitmap) SetPoint(coordinates, color any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	pt := Point2D{}
	if coordinates != nil {
		p, err := ParsePoint(coordinates)
		if err != nil {
			return nil, err
		}
		pt = p
	}
	c, err := b.normalizeColor(color)
	if err != nil {
		return nil, err
	}
	if err := b.surface.SetPoint(int(math.Round(pt.X)), int(math.Round(pt.Y)), c); err != nil {
		return nil, err
	}
	return b, nil
}

// GetPoint reads a single pixel. A nil coordinate is the origin.
func (b *Bitmap) GetPoint(coordinates any) (ARGB, error) {
	if err := b.check(); err != nil {
		return ARGB{}, err
	}
	pt := Point2D{}
	if coordinates != nil {
		p, err := ParsePoint(coordinates)
		if err != nil {
			return ARGB{}, err
		}
		pt = p
	}
	v, err := b.surface.GetPoint(int(math.Round(pt.X)), int(math.Round(pt.Y)))
	if err != nil {
		return ARGB{}, err
	}
	return FromPacked(v), nil
}

// Insert composites another bitmap over this one at leftTop (origin
// when nil).
func (b *Bitmap) Insert(other *Bitmap, leftTop any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if other == nil || other.disposed {
		return nil, ErrDisposed
	}
	pt := Point2D{}
	if leftTop != nil {
		p, err := ParsePoint(leftTop)
		if err != nil {
			return nil, err
		}
		pt = p
	}
	at := image.Pt(int(math.Round(pt.X)), int(math.Round(pt.Y)))
	if err := b.surface.Insert(other.surface, at); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteText draws text with its top-left corner at leftTop (origin
// when nil). font accepts anything ParseFont does; nil applies all
// font defaults.
func (b *Bitmap) WriteText(txt string, leftTop, font any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	pt := Point2D{}
	if leftTop != nil {
		p, err := ParsePoint(leftTop)
		if err != nil {
			return nil, err
		}
		pt = p
	}
	f := Font{}
	if font != nil {
		pf, err := ParseFont(font)
		if err != nil {
			return nil, err
		}
		f = pf
	}
	opts, err := b.textOptions(f)
	if err != nil {
		return nil, err
	}
	at := image.Pt(int(math.Round(pt.X)), int(math.Round(pt.Y)))
	if err := b.surface.WriteText(txt, at, opts); err != nil {
		return nil, err
	}
	return b, nil
}

// MeasureText returns the advance width and line height of txt in
// pixels for the given font (nil for defaults).
func (b *Bitmap) MeasureText(txt string, font any) (w, h float64, err error) {
	if err := b.check(); err != nil {
		return 0, 0, err
	}
	f := Font{}
	if font != nil {
		pf, perr := ParseFont(font)
		if perr != nil {
			return 0, 0, perr
		}
		f = pf
	}
	opts, err := b.textOptions(f)
	if err != nil {
		return 0, 0, err
	}
	return text.Options{Name: opts.Name, Size: opts.Size, AntiAlias: opts.AntiAlias}.Measure(txt)
}

// textOptions lowers a Font to the backend contract, applying the size
// and color defaults.
func (b *Bitmap) textOptions(f Font) (backend.TextOptions, error) {
	size := f.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	c, err := b.normalizeColor(f.Color)
	if err != nil {
		return backend.TextOptions{}, err
	}
	return backend.TextOptions{
		Name:      f.Name,
		Size:      size,
		Color:     c,
		AntiAlias: !f.NoAntiAlias,
	}, nil
}

// Clone returns an independent copy.
func (b *Bitmap) Clone() (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	s, err := b.surface.Clone()
	if err != nil {
		return nil, err
	}
	return wrap(s, b.defaultColor), nil
}

// Crop returns a new bitmap holding the given sub-region. Nil leftTop
// is the origin, nil size the full extent.
func (b *Bitmap) Crop(leftTop, size any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	region, err := b.region(size, leftTop)
	if err != nil {
		return nil, err
	}
	s, err := b.surface.Crop(region)
	if err != nil {
		return nil, err
	}
	return wrap(s, b.defaultColor), nil
}

// Resize returns a new bitmap resampled to the given size.
func (b *Bitmap) Resize(newSize any) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	sz, err := ParseSize(newSize)
	if err != nil {
		return nil, err
	}
	s, err := b.surface.Resize(int(math.Round(sz.Width)), int(math.Round(sz.Height)))
	if err != nil {
		return nil, err
	}
	return wrap(s, b.defaultColor), nil
}

// ResizeWidth resizes to the given width, preserving the aspect ratio
// computed from the current dimensions. A zero current width yields a
// ratio of zero rather than a division by zero.
func (b *Bitmap) ResizeWidth(width float64) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	ratio := 0.0
	if w := float64(b.surface.Width()); w != 0 {
		ratio = float64(b.surface.Height()) / w
	}
	return b.Resize(Size{Width: width, Height: width * ratio})
}

// ResizeHeight resizes to the given height, preserving the aspect
// ratio computed from the current dimensions.
func (b *Bitmap) ResizeHeight(height float64) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	ratio := 0.0
	if h := float64(b.surface.Height()); h != 0 {
		ratio = float64(b.surface.Width()) / h
	}
	return b.Resize(Size{Width: height * ratio, Height: height})
}

// ResizeMax resizes so the larger dimension becomes max, preserving
// the aspect ratio. Width wins ties only when strictly larger.
func (b *Bitmap) ResizeMax(max float64) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if b.surface.Width() > b.surface.Height() {
		return b.ResizeWidth(max)
	}
	return b.ResizeHeight(max)
}

// Rotate returns a new bitmap rotated clockwise by degrees.
func (b *Bitmap) Rotate(degrees float64) (*Bitmap, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	s, err := b.surface.Rotate(degrees)
	if err != nil {
		return nil, err
	}
	return wrap(s, b.defaultColor), nil
}

// ToObject encodes the bitmap. A zero format means PNG; a negative
// quality means 100. Quality only affects JPEG and ranges 0 to 100,
// with 0 meaning the codec's lowest setting.
func (b *Bitmap) ToObject(format OutputFormat, quality int) (Data, error) {
	if err := b.check(); err != nil {
		return Data{}, err
	}
	if format == 0 {
		format = FormatPNG
	}
	if quality < 0 {
		quality = 100
	}
	raw, err := b.surface.Encode(format, quality)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Base64: base64.StdEncoding.EncodeToString(raw),
		Mime:   format.Mime(),
	}, nil
}

// ToBase64 encodes the bitmap and returns the base64 payload.
func (b *Bitmap) ToBase64(format OutputFormat, quality int) (string, error) {
	d, err := b.ToObject(format, quality)
	if err != nil {
		return "", err
	}
	return d.Base64, nil
}

// ToDataURL encodes the bitmap as a data URL.
func (b *Bitmap) ToDataURL(format OutputFormat, quality int) (string, error) {
	d, err := b.ToObject(format, quality)
	if err != nil {
		return "", err
	}
	return d.DataURL(), nil
}

// SavePNG encodes the bitmap to a PNG file.
func (b *Bitmap) SavePNG(path string) error {
	raw, err := b.surfaceEncodePNG()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (b *Bitmap) surfaceEncodePNG() ([]byte, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	return b.surface.Encode(FormatPNG, 100)
}

// Dispose releases the native resource. If action is non-nil it is
// invoked with the bitmap and tag first and its return value becomes
// Dispose's result; the release happens on every exit path, including
// a panicking action. Dispose is idempotent: later calls do nothing
// and return nil.
func (b *Bitmap) Dispose(action func(b *Bitmap, tag any) any, tag any) any {
	if b.disposed {
		return nil
	}
	defer func() {
		b.disposed = true
		b.surface.Dispose()
	}()
	if action != nil {
		return action(b, tag)
	}
	return nil
}

// Close implements io.Closer by disposing the bitmap.
func (b *Bitmap) Close() error {
	b.Dispose(nil, nil)
	return nil
}

// String describes the bitmap for diagnostics.
func (b *Bitmap) String() string {
	if b.disposed {
		return "Bitmap(disposed)"
	}
	return fmt.Sprintf("Bitmap(%dx%d)", b.Width(), b.Height())
}
