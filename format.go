package bitmap

import (
	"fmt"

	"github.com/gogpu/bitmap/backend"
)

// OutputFormat selects the encoding for ToObject and friends.
type OutputFormat = backend.Format

const (
	// FormatPNG encodes to PNG (format selector 1).
	FormatPNG = backend.FormatPNG

	// FormatJPEG encodes to JPEG (format selector 2). Quality is an
	// integer in [0, 100].
	FormatJPEG = backend.FormatJPEG
)

// Data is an encoded bitmap: base64 payload plus MIME type.
// Data is immutable once produced.
type Data struct {
	Base64 string
	Mime   string
}

// DataURL returns the "data:<mime>;base64,<data>" form.
func (d Data) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", d.Mime, d.Base64)
}
