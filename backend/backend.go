// Package backend defines the platform capability contract that the
// bitmap facade draws through, plus a registry for selecting between
// the available platform models.
//
// A backend plays the role of a native graphics layer: it owns exactly
// one image resource and exposes the small set of primitives (clone,
// crop, resize, rotate, pixel access, shape and text drawing, encode)
// that the facade composes into its public API. Two models ship with
// the library:
//
//   - backend/canvas: a mutable pixel buffer with a painter bound to it
//     at construction. Drawing mutates the buffer in place.
//   - backend/quartz: an immutable snapshot handle. Every draw renders
//     the prior snapshot into a fresh context, applies the operation,
//     and swaps the new snapshot in.
//
// Backends register themselves via Register, typically from an init
// function in their own package.
package backend

import (
	"errors"
	"image"
)

// Common backend errors.
var (
	// ErrNotRegistered is returned when a requested backend is not registered.
	ErrNotRegistered = errors.New("backend: not registered")

	// ErrDisposed is returned by operations on a surface whose native
	// resource has already been released.
	ErrDisposed = errors.New("backend: surface disposed")

	// ErrUnsupportedFormat is returned by Encode for formats other than
	// PNG and JPEG.
	ErrUnsupportedFormat = errors.New("backend: unsupported output format")

	// ErrEncodingFailed is returned when the codec produces no output.
	ErrEncodingFailed = errors.New("backend: encoding produced no data")

	// ErrOutOfBounds is returned by pixel access outside the surface.
	ErrOutOfBounds = errors.New("backend: point outside surface bounds")
)

// Format selects the output encoding for Surface.Encode.
type Format int

const (
	// FormatPNG encodes to PNG. Quality is ignored.
	FormatPNG Format = 1

	// FormatJPEG encodes to JPEG. Quality is an integer in [0, 100].
	FormatJPEG Format = 2
)

// Mime returns the MIME type for the format, or "" if unknown.
func (f Format) Mime() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return ""
	}
}

// Paint carries the colors for a shape drawing primitive.
// Colors are packed 0xAARRGGBB values, the same layout the pixel
// primitives use. When Filled is set, backends paint the interior
// first and the outline on top, so the stroke is never occluded.
type Paint struct {
	Stroke uint32
	Fill   uint32
	Filled bool
}

// TextOptions carries the resolved font state for WriteText.
type TextOptions struct {
	// Name is the registered font family name. An unknown or empty
	// name falls back to the built-in face.
	Name string

	// Size is the font size in pixels, before any backend scaling.
	Size float64

	// Color is the packed 0xAARRGGBB text color.
	Color uint32

	// AntiAlias enables glyph hinting/smoothing.
	AntiAlias bool
}

// Options configures surface construction. Fields that do not apply to
// a backend model are ignored by it.
type Options struct {
	// AutoRelease controls whether a replaced or disposed snapshot's
	// backing buffer is left for the platform to reclaim (true) or
	// released explicitly (false). Only the quartz model replaces
	// snapshots; the canvas model ignores this.
	AutoRelease bool

	// Scale is the display density factor applied to text sizes by the
	// canvas model. Zero means 1.
	Scale float64
}

// Surface is the capability contract a platform backend must satisfy.
//
// A Surface owns exactly one native image resource. Producers (Clone,
// Crop, Resize, Rotate) return a new Surface and leave the receiver
// untouched. Mutators either draw into the owned resource in place or
// replace it wholesale, per the backend's model. After Dispose, every
// operation returns ErrDisposed.
type Surface interface {
	// Width returns the current width in pixels.
	Width() int

	// Height returns the current height in pixels.
	Height() int

	// Image returns a view of the current pixel content.
	// The returned image must not be retained across mutations.
	Image() image.Image

	// Clone returns an independent copy of the surface.
	Clone() (Surface, error)

	// Crop returns a new surface holding the given sub-region.
	Crop(region image.Rectangle) (Surface, error)

	// Resize returns a new surface resampled to width x height.
	Resize(width, height int) (Surface, error)

	// Rotate returns a new surface rotated clockwise by degrees.
	// Multiples of 90 preserve exact pixels; other angles resample
	// into an enlarged bounding box.
	Rotate(degrees float64) (Surface, error)

	// GetPoint returns the packed 0xAARRGGBB value at (x, y).
	GetPoint(x, y int) (uint32, error)

	// SetPoint writes the packed 0xAARRGGBB value at (x, y).
	SetPoint(x, y int, argb uint32) error

	// DrawLine draws a line between two points.
	DrawLine(from, to image.Point, stroke uint32) error

	// DrawRect draws a rectangle into the given region.
	DrawRect(region image.Rectangle, p Paint) error

	// DrawOval draws an ellipse inscribed in the given region.
	// A square region produces a circle.
	DrawOval(region image.Rectangle, p Paint) error

	// DrawArc draws an arc inside the region. startAngle and
	// sweepAngle are in degrees; the sweep is a signed delta from the
	// start. Whether the arc is closed through the center (pie) is a
	// backend model property, not unified across backends.
	DrawArc(region image.Rectangle, startAngle, sweepAngle float64, p Paint) error

	// Insert composites src over the surface at the given offset.
	Insert(src Surface, at image.Point) error

	// WriteText draws text with its top-left corner at the given point.
	WriteText(text string, at image.Point, o TextOptions) error

	// Encode serializes the current content to the given format.
	Encode(format Format, quality int) ([]byte, error)

	// Dispose releases the native resource. Dispose is idempotent;
	// only the first call performs a release.
	Dispose()

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

// Platform creates surfaces for one backend model.
type Platform interface {
	// Name returns the backend identifier (e.g. "canvas", "quartz").
	Name() string

	// NewSurface creates a blank, fully transparent surface.
	NewSurface(width, height int, o Options) (Surface, error)

	// Decode builds a surface from encoded PNG or JPEG bytes.
	// On failure any partially constructed resource is released before
	// the error is returned.
	Decode(data []byte, o Options) (Surface, error)
}

