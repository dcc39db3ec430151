// Package canvas implements the in-place mutable backend model: a
// surface owns a mutable pixel buffer with a painter bound to it at
// construction time, and every drawing operation mutates that buffer
// directly. This mirrors the bitmap-plus-canvas model of mobile
// platforms that hand out mutable bitmaps.
//
// Arc semantics in this model: angles are in degrees, the sweep runs
// clockwise from the start angle, and arcs are closed through the
// center (pie slices).
package canvas

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/gogpu/bitmap/backend"
	"github.com/gogpu/bitmap/internal/raster"
	"github.com/gogpu/bitmap/internal/text"
)

// Name is the registry identifier of this backend.
const Name = "canvas"

func init() {
	backend.Register(Name, func() backend.Platform { return platform{} })
}

type platform struct{}

func (platform) Name() string { return Name }

// NewSurface creates a blank, fully transparent mutable surface.
func (platform) NewSurface(width, height int, o backend.Options) (backend.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas: invalid dimensions %dx%d", width, height)
	}
	return newSurface(image.NewNRGBA(image.Rect(0, 0, width, height)), o.Scale), nil
}

// Decode builds a mutable surface from encoded PNG or JPEG bytes.
// The decoded image is always copied into a fresh mutable buffer so
// the surface never aliases decoder-owned memory.
func (platform) Decode(data []byte, o backend.Options) (backend.Surface, error) {
	decoded, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("canvas: decode failed: %w", err)
	}
	backend.Logger().Debug("canvas: decoded image", "format", kind)

	buf, err := mutableCopy(decoded)
	if err != nil {
		return nil, err
	}
	return newSurface(buf, o.Scale), nil
}

// mutableCopy copies any decoded image into a zero-origin NRGBA buffer.
func mutableCopy(src image.Image) (*image.NRGBA, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("canvas: decoded image has empty bounds")
	}
	buf := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(buf, buf.Bounds(), src, b.Min, draw.Src)
	return buf, nil
}

// Surface is the mutable pixel buffer model. The painter is bound to
// the buffer once at construction; all drawing goes through it and
// mutates the buffer in place.
type Surface struct {
	buf      *image.NRGBA
	painter  *raster.Painter
	scale    float64
	disposed bool
}

var _ backend.Surface = (*Surface)(nil)

func newSurface(buf *image.NRGBA, scale float64) *Surface {
	if scale <= 0 {
		scale = 1
	}
	return &Surface{
		buf:     buf,
		painter: raster.New(buf),
		scale:   scale,
	}
}

func (s *Surface) check() error {
	if s.disposed {
		return backend.ErrDisposed
	}
	return nil
}

// Width returns the buffer width in pixels.
func (s *Surface) Width() int {
	if s.disposed {
		return 0
	}
	return s.buf.Bounds().Dx()
}

// Height returns the buffer height in pixels.
func (s *Surface) Height() int {
	if s.disposed {
		return 0
	}
	return s.buf.Bounds().Dy()
}

// Image returns the live buffer. Callers must not retain it across
// mutations.
func (s *Surface) Image() image.Image {
	return s.buf
}

// Clone returns an independent copy of the surface.
func (s *Surface) Clone() (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return newSurface(raster.CloneBuffer(s.buf), s.scale), nil
}

// Crop copies the sub-region into a new surface. The receiver is not
// mutated.
func (s *Surface) Crop(region image.Rectangle) (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return newSurface(raster.CropCopy(s.buf, region), s.scale), nil
}

// Resize resamples into a new surface.
func (s *Surface) Resize(width, height int) (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas: invalid dimensions %dx%d", width, height)
	}
	return newSurface(raster.Resample(s.buf, width, height), s.scale), nil
}

// Rotate returns a new surface rotated clockwise by degrees.
func (s *Surface) Rotate(degrees float64) (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return newSurface(raster.Rotate(s.buf, degrees), s.scale), nil
}

// GetPoint returns the packed 0xAARRGGBB value at (x, y).
func (s *Surface) GetPoint(x, y int) (uint32, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	v, ok := s.painter.Get(x, y)
	if !ok {
		return 0, backend.ErrOutOfBounds
	}
	return v, nil
}

// SetPoint writes the packed 0xAARRGGBB value at (x, y).
func (s *Surface) SetPoint(x, y int, argb uint32) error {
	if err := s.check(); err != nil {
		return err
	}
	if !(image.Point{X: x, Y: y}).In(s.buf.Bounds()) {
		return backend.ErrOutOfBounds
	}
	s.buf.SetNRGBA(x, y, raster.ToNRGBA(argb))
	return nil
}

// DrawLine draws a line into the buffer.
func (s *Surface) DrawLine(from, to image.Point, stroke uint32) error {
	if err := s.check(); err != nil {
		return err
	}
	s.painter.Line(from, to, stroke)
	return nil
}

// DrawRect draws a rectangle. Fill goes down first, stroke on top.
func (s *Surface) DrawRect(region image.Rectangle, p backend.Paint) error {
	if err := s.check(); err != nil {
		return err
	}
	if p.Filled {
		s.painter.FillRect(region, p.Fill)
	}
	s.painter.StrokeRect(region, p.Stroke)
	return nil
}

// DrawOval draws the inscribed ellipse. Square regions take the circle
// path inside the painter.
func (s *Surface) DrawOval(region image.Rectangle, p backend.Paint) error {
	if err := s.check(); err != nil {
		return err
	}
	if p.Filled {
		s.painter.FillOval(region, p.Fill)
	}
	s.painter.StrokeOval(region, p.Stroke)
	return nil
}

// DrawArc draws a pie-slice arc. Angles are degrees; positive sweeps
// run clockwise.
func (s *Surface) DrawArc(region image.Rectangle, startAngle, sweepAngle float64, p backend.Paint) error {
	if err := s.check(); err != nil {
		return err
	}
	start := startAngle * math.Pi / 180
	sweep := sweepAngle * math.Pi / 180
	if p.Filled {
		s.painter.FillArc(region, start, sweep, raster.ArcPie, p.Fill)
	}
	s.painter.StrokeArc(region, start, sweep, raster.ArcPie, p.Stroke)
	return nil
}

// Insert composites src over the buffer at the given offset.
func (s *Surface) Insert(src backend.Surface, at image.Point) error {
	if err := s.check(); err != nil {
		return err
	}
	if src.Disposed() {
		return backend.ErrDisposed
	}
	s.painter.Insert(src.Image(), at)
	return nil
}

// WriteText draws text with its top-left corner at the given point.
// The font size is scaled by the surface's display scale.
func (s *Surface) WriteText(str string, at image.Point, o backend.TextOptions) error {
	if err := s.check(); err != nil {
		return err
	}
	opts := text.Options{
		Name:      o.Name,
		Size:      o.Size * s.scale,
		AntiAlias: o.AntiAlias,
	}
	return opts.Draw(s.buf, str, float64(at.X), float64(at.Y), raster.ToNRGBA(o.Color))
}

// Encode serializes the buffer to PNG or JPEG bytes. The buffered
// stream is flushed on every exit path.
func (s *Surface) Encode(format backend.Format, quality int) ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	defer func() {
		_ = w.Flush()
	}()

	switch format {
	case backend.FormatPNG:
		if err := png.Encode(w, s.buf); err != nil {
			return nil, fmt.Errorf("canvas: png encode: %w", err)
		}
	case backend.FormatJPEG:
		if err := jpeg.Encode(w, s.buf, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("canvas: jpeg encode: %w", err)
		}
	default:
		return nil, backend.ErrUnsupportedFormat
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Dispose releases the buffer. Only the first call performs the
// release; later calls are no-ops.
func (s *Surface) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.buf = nil
	s.painter = nil
}

// Disposed reports whether Dispose has been called.
func (s *Surface) Disposed() bool {
	return s.disposed
}
