// Package quartz implements the snapshot-replacing backend model: a
// surface owns an immutable image snapshot, and every content mutation
// opens a fresh drawing context, replays the prior snapshot as the base
// layer, applies the operation, captures a new snapshot and swaps it
// in. The surface never mutates pixels of an existing snapshot.
//
// Snapshot backing buffers may be managed manually: unless the
// AutoRelease option says the platform reclaims replaced snapshots,
// every swap explicitly releases the previous one. The flag is fixed at
// construction.
//
// Arc semantics in this model: angles are converted from degrees to
// radians, the sweep is a signed delta added to the start angle to
// obtain the absolute end angle, and filled arcs are closed with a
// chord rather than through the center. The asymmetry with the canvas
// model is deliberate; it mirrors the native APIs.
package quartz

import (
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
const Name = "quartz"

func init() {
	backend.Register(Name, func() backend.Platform { return platform{} })
}

type platform struct{}

func (platform) Name() string { return Name }

// NewSurface creates a surface holding a blank transparent snapshot.
func (platform) NewSurface(width, height int, o backend.Options) (backend.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("quartz: invalid dimensions %dx%d", width, height)
	}
	return &Surface{
		handle:      newSnapshot(image.NewNRGBA(image.Rect(0, 0, width, height))),
		autoRelease: o.AutoRelease,
	}, nil
}

// Decode builds a surface from encoded PNG or JPEG bytes. A failed
// snapshot capture releases the intermediate buffer before the error
// is returned.
func (platform) Decode(data []byte, o backend.Options) (backend.Surface, error) {
	decoded, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("quartz: decode failed: %w", err)
	}
	backend.Logger().Debug("quartz: decoded image", "format", kind)

	b := decoded.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("quartz: decoded image has empty bounds")
	}
	buf := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(buf, buf.Bounds(), decoded, b.Min, draw.Src)
	return &Surface{
		handle:      newSnapshot(buf),
		autoRelease: o.AutoRelease,
	}, nil
}

// snapshot is one immutable rendered image plus its manually managed
// backing buffer.
type snapshot struct {
	img      *image.NRGBA
	released bool
}

func newSnapshot(img *image.NRGBA) *snapshot {
	return &snapshot{img: img}
}

// release drops the backing buffer. Releasing twice logs and does
// nothing.
func (sn *snapshot) release() {
	if sn == nil {
		return
	}
	if sn.released {
		backend.Logger().Warn("quartz: snapshot released twice")
		return
	}
	sn.released = true
	sn.img = nil
}

// Surface is the snapshot-replacing model.
type Surface struct {
	handle      *snapshot
	autoRelease bool
	disposed    bool
}

var _ backend.Surface = (*Surface)(nil)

func (s *Surface) check() error {
	if s.disposed {
		return backend.ErrDisposed
	}
	return nil
}

// swap installs a new snapshot and deals with the previous one: if the
// platform reclaims automatically the old reference is simply dropped,
// otherwise it is released explicitly. Release is guaranteed even when
// the caller is unwinding an error.
func (s *Surface) swap(next *snapshot) {
	old := s.handle
	s.handle = next
	if !s.autoRelease {
		old.release()
	}
}

// withContext opens a drawing context, replays the current snapshot as
// the base layer, runs op, and swaps in the captured result. When op
// fails the context is discarded and the current snapshot stays.
func (s *Surface) withContext(op func(p *raster.Painter, ctx *image.NRGBA) error) error {
	if err := s.check(); err != nil {
		return err
	}
	base := s.handle.img
	ctx := image.NewNRGBA(base.Bounds())
	draw.Draw(ctx, ctx.Bounds(), base, base.Bounds().Min, draw.Src)

	if err := op(raster.New(ctx), ctx); err != nil {
		return err
	}
	s.swap(newSnapshot(ctx))
	return nil
}

// Width returns the current snapshot width in pixels.
func (s *Surface) Width() int {
	if s.disposed || s.handle == nil || s.handle.img == nil {
		return 0
	}
	return s.handle.img.Bounds().Dx()
}

// Height returns the current snapshot height in pixels.
func (s *Surface) Height() int {
	if s.disposed || s.handle == nil || s.handle.img == nil {
		return 0
	}
	return s.handle.img.Bounds().Dy()
}

// Image returns the current snapshot.
func (s *Surface) Image() image.Image {
	if s.handle == nil {
		return nil
	}
	return s.handle.img
}

// Clone returns a surface holding a copy of the current snapshot.
func (s *Surface) Clone() (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return &Surface{
		handle:      newSnapshot(raster.CloneBuffer(s.handle.img)),
		autoRelease: s.autoRelease,
	}, nil
}

// Crop returns a surface holding the sub-region as a new snapshot.
func (s *Surface) Crop(region image.Rectangle) (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return &Surface{
		handle:      newSnapshot(raster.CropCopy(s.handle.img, region)),
		autoRelease: s.autoRelease,
	}, nil
}

// Resize returns a resampled surface.
func (s *Surface) Resize(width, height int) (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("quartz: invalid dimensions %dx%d", width, height)
	}
	return &Surface{
		handle:      newSnapshot(raster.Resample(s.handle.img, width, height)),
		autoRelease: s.autoRelease,
	}, nil
}

// Rotate returns a surface rotated clockwise by degrees.
func (s *Surface) Rotate(degrees float64) (backend.Surface, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return &Surface{
		handle:      newSnapshot(raster.Rotate(s.handle.img, degrees)),
		autoRelease: s.autoRelease,
	}, nil
}

// GetPoint reads the raw pixel bytes at (x, y) from the snapshot's
// buffer and packs them into a 0xAARRGGBB value.
func (s *Surface) GetPoint(x, y int) (uint32, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	img := s.handle.img
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return 0, backend.ErrOutOfBounds
	}
	i := img.PixOffset(x, y)
	r, g, b, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
	return raster.PackARGB(a, r, g, b), nil
}

// SetPoint writes one pixel by rendering a replacement snapshot.
func (s *Surface) SetPoint(x, y int, argb uint32) error {
	if err := s.check(); err != nil {
		return err
	}
	if !(image.Point{X: x, Y: y}).In(s.handle.img.Bounds()) {
		return backend.ErrOutOfBounds
	}
	return s.withContext(func(_ *raster.Painter, ctx *image.NRGBA) error {
		ctx.SetNRGBA(x, y, raster.ToNRGBA(argb))
		return nil
	})
}

// DrawLine renders a line into a replacement snapshot.
func (s *Surface) DrawLine(from, to image.Point, stroke uint32) error {
	return s.withContext(func(p *raster.Painter, _ *image.NRGBA) error {
		p.Line(from, to, stroke)
		return nil
	})
}

// DrawRect renders a rectangle. Fill goes down first, stroke on top.
func (s *Surface) DrawRect(region image.Rectangle, pt backend.Paint) error {
	return s.withContext(func(p *raster.Painter, _ *image.NRGBA) error {
		if pt.Filled {
			p.FillRect(region, pt.Fill)
		}
		p.StrokeRect(region, pt.Stroke)
		return nil
	})
}

// DrawOval renders the inscribed ellipse.
func (s *Surface) DrawOval(region image.Rectangle, pt backend.Paint) error {
	return s.withContext(func(p *raster.Painter, _ *image.NRGBA) error {
		if pt.Filled {
			p.FillOval(region, pt.Fill)
		}
		p.StrokeOval(region, pt.Stroke)
		return nil
	})
}

// DrawArc renders an arc. Degrees are converted to radians and the
// sweep is added to the start to obtain the end angle; the interior is
// closed with a chord.
func (s *Surface) DrawArc(region image.Rectangle, startAngle, sweepAngle float64, pt backend.Paint) error {
	start := startAngle * math.Pi / 180
	end := start + sweepAngle*math.Pi/180
	return s.withContext(func(p *raster.Painter, _ *image.NRGBA) error {
		if pt.Filled {
			p.FillArc(region, start, end-start, raster.ArcSegment, pt.Fill)
		}
		p.StrokeArc(region, start, end-start, raster.ArcSegment, pt.Stroke)
		return nil
	})
}

// Insert composites src over the surface at the given offset.
func (s *Surface) Insert(src backend.Surface, at image.Point) error {
	if src.Disposed() {
		return backend.ErrDisposed
	}
	return s.withContext(func(p *raster.Painter, _ *image.NRGBA) error {
		p.Insert(src.Image(), at)
		return nil
	})
}

// WriteText renders text with its top-left corner at the given point.
func (s *Surface) WriteText(str string, at image.Point, o backend.TextOptions) error {
	return s.withContext(func(_ *raster.Painter, ctx *image.NRGBA) error {
		opts := text.Options{
			Name:      o.Name,
			Size:      o.Size,
			AntiAlias: o.AntiAlias,
		}
		return opts.Draw(ctx, str, float64(at.X), float64(at.Y), raster.ToNRGBA(o.Color))
	})
}

// Encode serializes the current snapshot. JPEG quality is scaled to
// the native 0.0–1.0 range before being handed to the codec. An empty
// codec result is reported as ErrEncodingFailed.
func (s *Surface) Encode(format backend.Format, quality int) ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	switch format {
	case backend.FormatPNG:
		if err := png.Encode(&out, s.handle.img); err != nil {
			return nil, fmt.Errorf("quartz: png encode: %w", err)
		}
	case backend.FormatJPEG:
		q := float64(quality) / 100
		if q < 0 {
			q = 0
		} else if q > 1 {
			q = 1
		}
		if err := jpeg.Encode(&out, s.handle.img, &jpeg.Options{Quality: int(q * 100)}); err != nil {
			return nil, fmt.Errorf("quartz: jpeg encode: %w", err)
		}
	default:
		return nil, backend.ErrUnsupportedFormat
	}

	if out.Len() == 0 {
		return nil, backend.ErrEncodingFailed
	}
	return out.Bytes(), nil
}

// Dispose releases the current snapshot per the AutoRelease policy and
// clears the handle. Only the first call does anything.
func (s *Surface) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if !s.autoRelease {
		s.handle.release()
	}
	s.handle = nil
}

// Disposed reports whether Dispose has been called.
func (s *Surface) Disposed() bool {
	return s.disposed
}
