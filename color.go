package bitmap

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ARGB represents a color with alpha, red, green and blue components,
// one byte each, alpha first.
type ARGB struct {
	A, R, G, B uint8
}

// DefaultColor is the color applied when a drawing operation receives
// no color: opaque black.
var DefaultColor = ARGB{A: 0xff}

// knownColors maps lowercase color names to their ARGB values.
var knownColors = map[string]ARGB{
	"black":   {0xff, 0x00, 0x00, 0x00},
	"blue":    {0xff, 0x00, 0x00, 0xff},
	"cyan":    {0xff, 0x00, 0xff, 0xff},
	"gray":    {0xff, 0x80, 0x80, 0x80},
	"green":   {0xff, 0x00, 0x80, 0x00},
	"lime":    {0xff, 0x00, 0xff, 0x00},
	"magenta": {0xff, 0xff, 0x00, 0xff},
	"maroon":  {0xff, 0x80, 0x00, 0x00},
	"navy":    {0xff, 0x00, 0x00, 0x80},
	"olive":   {0xff, 0x80, 0x80, 0x00},
	"orange":  {0xff, 0xff, 0xa5, 0x00},
	"purple":  {0xff, 0x80, 0x00, 0x80},
	"red":     {0xff, 0xff, 0x00, 0x00},
	"silver":  {0xff, 0xc0, 0xc0, 0xc0},
	"teal":    {0xff, 0x00, 0x80, 0x80},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0xff, 0x00},
}

// hexColorPattern matches #RGB, #ARGB, #RRGGBB and #AARRGGBB forms,
// with an optional leading '#'.
var hexColorPattern = regexp.MustCompile(`^(#)?([0-9a-f]{3,4}|[0-9a-f]{6}|[0-9a-f]{8})$`)

// ParseColor normalizes a value to an ARGB color.
//
// Accepted forms:
//   - ARGB or *ARGB values (returned as-is)
//   - color names from the known-color table ("red", "navy", ...)
//   - hex strings "#RGB", "#ARGB", "#RRGGBB", "#AARRGGBB",
//     case-insensitive, '#' optional; 3 digits are RGB, 4 are ARGB
//     with the alpha digit first
//   - packed 32-bit integers; negative values are interpreted as
//     two's-complement and values outside 32 bits are rejected
//
// An absent color is a facade concern, not a parser one: ParseColor
// rejects nil with ErrInvalidColor.
func ParseColor(v any) (ARGB, error) {
	switch c := v.(type) {
	case ARGB:
		return c, nil
	case *ARGB:
		if c == nil {
			return ARGB{}, ErrInvalidColor
		}
		return *c, nil
	case string:
		return parseColorString(c)
	case int:
		return parseColorInt(int64(c))
	case int32:
		return parseColorInt(int64(c))
	case int64:
		return parseColorInt(c)
	case uint32:
		return FromPacked(c), nil
	case color.Color:
		r, g, b, a := c.RGBA()
		return ARGB{A: uint8(a >> 8), R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}, nil
	default:
		return ARGB{}, fmt.Errorf("%w: %T", ErrInvalidColor, v)
	}
}

func parseColorString(s string) (ARGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := knownColors[s]; ok {
		return c, nil
	}

	m := hexColorPattern.FindStringSubmatch(s)
	if m == nil {
		return ARGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	hex := m[2]

	nibble := func(i int) uint8 {
		v, _ := strconv.ParseUint(hex[i:i+1], 16, 8)
		return uint8(v * 17)
	}
	pair := func(i int) uint8 {
		v, _ := strconv.ParseUint(hex[i:i+2], 16, 8)
		return uint8(v)
	}

	switch len(hex) {
	case 3: // RGB
		return ARGB{A: 0xff, R: nibble(0), G: nibble(1), B: nibble(2)}, nil
	case 4: // ARGB, alpha digit first
		return ARGB{A: nibble(0), R: nibble(1), G: nibble(2), B: nibble(3)}, nil
	case 6: // RRGGBB
		return ARGB{A: 0xff, R: pair(0), G: pair(2), B: pair(4)}, nil
	default: // AARRGGBB
		return ARGB{A: pair(0), R: pair(2), G: pair(4), B: pair(6)}, nil
	}
}

// parseColorInt normalizes a packed integer color. Negative inputs are
// two's-complement 32-bit values; anything outside the 32-bit range is
// rejected. The value is reformatted as an 8-digit hex string and
// parsed through the string path.
func parseColorInt(v int64) (ARGB, error) {
	if v < math.MinInt32 || v > math.MaxUint32 {
		return ARGB{}, fmt.Errorf("%w: %d out of 32-bit range", ErrInvalidColor, v)
	}
	u := uint32(v) // negative values wrap to their two's-complement form
	return parseColorString(fmt.Sprintf("#%08x", u))
}

// ParseColorDefault normalizes v like ParseColor but swallows the
// error: unparseable values yield def instead.
func ParseColorDefault(v any, def ARGB) ARGB {
	c, err := ParseColor(v)
	if err != nil {
		return def
	}
	return c
}

// HexString returns the canonical "#aarrggbb" form of the color.
// ParseColor(c.HexString()) round-trips exactly.
func (c ARGB) HexString() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// Packed returns the color as a packed 0xAARRGGBB value.
func (c ARGB) Packed() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// FromPacked splits a packed 0xAARRGGBB value into an ARGB.
func FromPacked(v uint32) ARGB {
	return ARGB{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Color converts the ARGB to the standard color.Color interface.
func (c ARGB) Color() color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGBA implements color.Color.
func (c ARGB) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}
