package bitmap

import (
	"fmt"

	"github.com/gogpu/bitmap/internal/text"
)

// DefaultFontSize is applied when a Font does not specify a size.
const DefaultFontSize = 10

// Font describes the text style for WriteText and MeasureText.
// Zero-valued fields fall back to defaults at draw time: Size to
// DefaultFontSize, Color to the bitmap's default color, and AntiAlias
// to true (set NoAntiAlias to opt out).
type Font struct {
	// Name is the registered font family name. An empty or unknown
	// name uses the built-in face.
	Name string

	// Size is the font size in pixels.
	Size float64

	// Color is any value ParseColor accepts. Nil uses the bitmap's
	// default color.
	Color any

	// NoAntiAlias disables glyph smoothing. The zero value keeps
	// anti-aliasing on, matching the platform default.
	NoAntiAlias bool
}

// ParseFont normalizes a value to a Font. Accepted forms: Font and
// *Font values with a name (or fully zero for all-defaults), and
// strings, which become the font name.
func ParseFont(v any) (Font, error) {
	switch f := v.(type) {
	case Font:
		return f, nil
	case *Font:
		if f == nil {
			return Font{}, ErrInvalidFont
		}
		return *f, nil
	case string:
		return Font{Name: f}, nil
	default:
		return Font{}, fmt.Errorf("%w: %T", ErrInvalidFont, v)
	}
}

// RegisterFont parses TTF or OTF data and registers it under its
// family name, which is returned. Fonts registered here are resolved
// by Font.Name in WriteText and MeasureText, on any backend.
func RegisterFont(data []byte) (string, error) {
	name, err := text.Register(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	return name, nil
}

// RegisteredFonts returns the family names registered so far.
func RegisteredFonts() []string {
	return text.Registered()
}
