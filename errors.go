package bitmap

import (
	"errors"

	"github.com/gogpu/bitmap/backend"
)

// Normalization and factory errors.
var (
	// ErrInvalidColor is returned when a value cannot be normalized to
	// an ARGB color.
	ErrInvalidColor = errors.New("bitmap: invalid color")

	// ErrInvalidPoint is returned when a value cannot be normalized to
	// a Point2D.
	ErrInvalidPoint = errors.New("bitmap: invalid point")

	// ErrInvalidSize is returned when a value cannot be normalized to
	// a Size.
	ErrInvalidSize = errors.New("bitmap: invalid size")

	// ErrInvalidFont is returned when a value cannot be normalized to
	// a Font.
	ErrInvalidFont = errors.New("bitmap: invalid font")

	// ErrInvalidBitmapValue is returned by AsBitmap for values that are
	// neither a bitmap, encoded bytes, a base64 string, nor an image.
	ErrInvalidBitmapValue = errors.New("bitmap: invalid bitmap value")

	// ErrInvalidNativeObject is returned by MakeMutable for values of
	// an unrecognized shape.
	ErrInvalidNativeObject = errors.New("bitmap: invalid native object")
)

// Re-exported backend errors, so callers can match without importing
// the backend package.
var (
	// ErrUnsupportedFormat is returned by the encode path for formats
	// other than PNG and JPEG.
	ErrUnsupportedFormat = backend.ErrUnsupportedFormat

	// ErrEncodingFailed is returned when the codec produces no output.
	ErrEncodingFailed = backend.ErrEncodingFailed

	// ErrDisposed is returned by operations on a disposed bitmap.
	ErrDisposed = backend.ErrDisposed
)
