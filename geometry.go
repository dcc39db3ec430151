package bitmap

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
)

// Point2D is a drawing coordinate.
type Point2D struct {
	X, Y float64
}

// Pt is a convenience function to create a Point2D.
func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Size holds width and height dimensions.
type Size struct {
	Width, Height float64
}

// Sz is a convenience function to create a Size.
func Sz(width, height float64) Size {
	return Size{Width: width, Height: height}
}

const number = `[+-]?(?:\d+(?:\.\d+)?|\.\d+)`

// pointPattern matches "x|y" and "x,y" with optional whitespace.
var pointPattern = regexp.MustCompile(`^\s*(` + number + `)\s*[|,]\s*(` + number + `)\s*$`)

// sizePattern matches "WxH" and "W,H", case-insensitive on the 'x'.
var sizePattern = regexp.MustCompile(`(?i)^\s*(` + number + `)\s*[x,]\s*(` + number + `)\s*$`)

// ParsePoint normalizes a value to a Point2D. Accepted forms: Point2D
// and *Point2D values, image.Point, and strings in "x|y" or "x,y"
// form.
func ParsePoint(v any) (Point2D, error) {
	switch p := v.(type) {
	case Point2D:
		return p, nil
	case *Point2D:
		if p == nil {
			return Point2D{}, ErrInvalidPoint
		}
		return *p, nil
	case image.Point:
		return Point2D{X: float64(p.X), Y: float64(p.Y)}, nil
	case string:
		m := pointPattern.FindStringSubmatch(p)
		if m == nil {
			return Point2D{}, fmt.Errorf("%w: %q", ErrInvalidPoint, p)
		}
		x, _ := strconv.ParseFloat(m[1], 64)
		y, _ := strconv.ParseFloat(m[2], 64)
		return Point2D{X: x, Y: y}, nil
	default:
		return Point2D{}, fmt.Errorf("%w: %T", ErrInvalidPoint, v)
	}
}

// ParseSize normalizes a value to a Size. Accepted forms: Size and
// *Size values, image.Point, and strings in "WxH" or "W,H" form
// (the separator is case-insensitive).
func ParseSize(v any) (Size, error) {
	switch s := v.(type) {
	case Size:
		return s, nil
	case *Size:
		if s == nil {
			return Size{}, ErrInvalidSize
		}
		return *s, nil
	case image.Point:
		return Size{Width: float64(s.X), Height: float64(s.Y)}, nil
	case string:
		m := sizePattern.FindStringSubmatch(s)
		if m == nil {
			return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
		}
		w, _ := strconv.ParseFloat(m[1], 64)
		h, _ := strconv.ParseFloat(m[2], 64)
		return Size{Width: w, Height: h}, nil
	default:
		return Size{}, fmt.Errorf("%w: %T", ErrInvalidSize, v)
	}
}
