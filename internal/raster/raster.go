// Package raster provides the pixel-level drawing primitives the
// platform backends are built on. It plays the role of the native
// graphics layer: a Painter is bound to one NRGBA buffer and draws
// lines, rectangles, ellipses and arcs into it with source-over
// blending.
//
// Colors are packed 0xAARRGGBB values throughout, matching the pixel
// access primitives of the backend contract.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// PackARGB packs a color into the 0xAARRGGBB layout.
func PackARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackARGB splits a packed 0xAARRGGBB value into channels.
func UnpackARGB(v uint32) (a, r, g, b uint8) {
	return uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// ToNRGBA converts a packed 0xAARRGGBB value to a color.NRGBA.
func ToNRGBA(v uint32) color.NRGBA {
	a, r, g, b := UnpackARGB(v)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// FromNRGBA packs a color.NRGBA into the 0xAARRGGBB layout.
func FromNRGBA(c color.NRGBA) uint32 {
	return PackARGB(c.A, c.R, c.G, c.B)
}

// Painter draws into a single NRGBA buffer. The buffer is bound at
// construction and shared with the caller; Painter never reallocates it.
type Painter struct {
	dst *image.NRGBA
}

// New binds a painter to the given buffer.
func New(dst *image.NRGBA) *Painter {
	return &Painter{dst: dst}
}

// Bounds returns the bounds of the bound buffer.
func (p *Painter) Bounds() image.Rectangle {
	return p.dst.Bounds()
}

// Set writes a packed color at (x, y) with source-over blending.
// Writes outside the buffer are dropped.
func (p *Painter) Set(x, y int, argb uint32) {
	if !(image.Point{X: x, Y: y}).In(p.dst.Bounds()) {
		return
	}
	a, r, g, b := UnpackARGB(argb)
	if a == 0xff {
		p.dst.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 0xff})
		return
	}
	if a == 0 {
		return
	}
	p.dst.SetNRGBA(x, y, blend(p.dst.NRGBAAt(x, y), color.NRGBA{R: r, G: g, B: b, A: a}))
}

// Get returns the packed color at (x, y) and whether it is in bounds.
func (p *Painter) Get(x, y int) (uint32, bool) {
	if !(image.Point{X: x, Y: y}).In(p.dst.Bounds()) {
		return 0, false
	}
	return FromNRGBA(p.dst.NRGBAAt(x, y)), true
}

// blend composites src over dst on straight (non-premultiplied) channels.
func blend(dst, src color.NRGBA) color.NRGBA {
	sa := uint32(src.A)
	da := uint32(dst.A)
	oa := sa + da*(255-sa)/255
	if oa == 0 {
		return color.NRGBA{}
	}
	mix := func(s, d uint8) uint8 {
		v := (uint32(s)*sa + uint32(d)*da*(255-sa)/255) / oa
		return uint8(v)
	}
	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8(oa),
	}
}

// Line draws a one-pixel line between two points (Bresenham).
func (p *Painter) Line(from, to image.Point, argb uint32) {
	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		p.Set(x0, y0, argb)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillRect fills the region clipped to the buffer.
func (p *Painter) FillRect(region image.Rectangle, argb uint32) {
	r := region.Intersect(p.dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.Set(x, y, argb)
		}
	}
}

// StrokeRect draws the one-pixel outline of the region. The outline
// lies on the outermost pixels of the region, so stroke over an equal
// fill leaves no gap.
func (p *Painter) StrokeRect(region image.Rectangle, argb uint32) {
	if region.Empty() {
		return
	}
	x0, y0 := region.Min.X, region.Min.Y
	x1, y1 := region.Max.X-1, region.Max.Y-1
	p.Line(image.Pt(x0, y0), image.Pt(x1, y0), argb)
	if y1 > y0 {
		p.Line(image.Pt(x0, y1), image.Pt(x1, y1), argb)
	}
	if y1-y0 > 1 {
		p.Line(image.Pt(x0, y0+1), image.Pt(x0, y1-1), argb)
		if x1 > x0 {
			p.Line(image.Pt(x1, y0+1), image.Pt(x1, y1-1), argb)
		}
	}
}

// ellipseParams returns the center and radii of the ellipse inscribed
// in region, in pixel-center coordinates.
func ellipseParams(region image.Rectangle) (cx, cy, rx, ry float64) {
	cx = float64(region.Min.X+region.Max.X) / 2
	cy = float64(region.Min.Y+region.Max.Y) / 2
	rx = float64(region.Dx()) / 2
	ry = float64(region.Dy()) / 2
	return
}

// FillOval fills the ellipse inscribed in region. A square region is
// detected and routed through the circle path, which avoids the
// general ellipse math.
func (p *Painter) FillOval(region image.Rectangle, argb uint32) {
	if region.Dx() == region.Dy() {
		p.fillCircle(region, argb)
		return
	}
	cx, cy, rx, ry := ellipseParams(region)
	if rx <= 0 || ry <= 0 {
		return
	}
	r := region.Intersect(p.dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			if dx >= -half && dx <= half {
				p.Set(x, y, argb)
			}
		}
	}
}

// fillCircle fills the circle inscribed in a square region. Uses the
// same pixel-center coverage rule as FillOval so the two are
// pixel-identical on square regions.
func (p *Painter) fillCircle(region image.Rectangle, argb uint32) {
	cx, cy, radius, _ := ellipseParams(region)
	if radius <= 0 {
		return
	}
	r := region.Intersect(p.dst.Bounds())
	rr := radius * radius
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= rr {
				p.Set(x, y, argb)
			}
		}
	}
}

// StrokeOval draws the one-pixel outline of the inscribed ellipse.
func (p *Painter) StrokeOval(region image.Rectangle, argb uint32) {
	cx, cy, rx, ry := ellipseParams(region)
	if rx <= 0 || ry <= 0 {
		return
	}
	// Inset by half a pixel so the outline stays inside the region.
	rx -= 0.5
	ry -= 0.5
	steps := perimeterSteps(rx, ry)
	lastX, lastY := math.MinInt32, math.MinInt32
	for i := 0; i <= steps; i++ {
		t := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Floor(cx + rx*math.Cos(t)))
		y := int(math.Floor(cy + ry*math.Sin(t)))
		if x == lastX && y == lastY {
			continue
		}
		p.Set(x, y, argb)
		lastX, lastY = x, y
	}
}

// perimeterSteps picks a sampling density that leaves no gaps on a
// one-pixel outline.
func perimeterSteps(rx, ry float64) int {
	r := math.Max(rx, ry)
	n := int(math.Ceil(4 * math.Pi * r))
	if n < 16 {
		n = 16
	}
	return n
}

// ArcStyle selects how arc interiors and closures are handled.
// The two platform models close arcs differently and the difference is
// deliberately not unified.
type ArcStyle int

const (
	// ArcPie closes the arc through the center (pie slice).
	ArcPie ArcStyle = iota

	// ArcSegment closes the arc with a straight chord.
	ArcSegment
)

// FillArc fills an arc of the inscribed ellipse. start and sweep are
// in radians; a positive sweep runs clockwise in screen coordinates.
// Sweeps of 2π or more fill the whole ellipse.
func (p *Painter) FillArc(region image.Rectangle, start, sweep float64, style ArcStyle, argb uint32) {
	if sweep == 0 {
		return
	}
	if math.Abs(sweep) >= 2*math.Pi {
		p.FillOval(region, argb)
		return
	}
	cx, cy, rx, ry := ellipseParams(region)
	if rx <= 0 || ry <= 0 {
		return
	}

	// Chord endpoints on the unit circle, for segment closure.
	ax, ay := math.Cos(start), math.Sin(start)
	bx, by := math.Cos(start+sweep), math.Sin(start+sweep)

	r := region.Intersect(p.dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ndy := (float64(y) + 0.5 - cy) / ry
		for x := r.Min.X; x < r.Max.X; x++ {
			ndx := (float64(x) + 0.5 - cx) / rx
			if ndx*ndx+ndy*ndy > 1 {
				continue
			}
			switch style {
			case ArcPie:
				if angleWithin(math.Atan2(ndy, ndx), start, sweep) {
					p.Set(x, y, argb)
				}
			case ArcSegment:
				// In the segment iff on the arc side of the chord.
				cross := (bx-ax)*(ndy-ay) - (by-ay)*(ndx-ax)
				if (sweep > 0 && cross <= 0) || (sweep < 0 && cross >= 0) {
					p.Set(x, y, argb)
				}
			}
		}
	}
}

// angleWithin reports whether theta lies inside the swept range
// [start, start+sweep]. A positive sweep covers increasing angles,
// a negative sweep decreasing ones; both wrap around 2π.
func angleWithin(theta, start, sweep float64) bool {
	twoPi := 2 * math.Pi
	if sweep < 0 {
		start += sweep
		sweep = -sweep
	}
	delta := math.Mod(theta-start, twoPi)
	if delta < 0 {
		delta += twoPi
	}
	return delta <= sweep
}

// StrokeArc draws the outline of an arc. For ArcPie the two radii to
// the center are drawn as well; for ArcSegment only the curve itself.
func (p *Painter) StrokeArc(region image.Rectangle, start, sweep float64, style ArcStyle, argb uint32) {
	if sweep == 0 {
		return
	}
	cx, cy, rx, ry := ellipseParams(region)
	if rx <= 0 || ry <= 0 {
		return
	}
	rx -= 0.5
	ry -= 0.5

	full := math.Min(math.Abs(sweep), 2*math.Pi)
	steps := int(float64(perimeterSteps(rx, ry)) * full / (2 * math.Pi))
	if steps < 8 {
		steps = 8
	}
	sign := 1.0
	if sweep < 0 {
		sign = -1
	}

	firstX, firstY := 0, 0
	lastX, lastY := math.MinInt32, math.MinInt32
	for i := 0; i <= steps; i++ {
		t := start + sign*full*float64(i)/float64(steps)
		x := int(math.Floor(cx + rx*math.Cos(t)))
		y := int(math.Floor(cy + ry*math.Sin(t)))
		if i == 0 {
			firstX, firstY = x, y
		}
		if x == lastX && y == lastY {
			continue
		}
		p.Set(x, y, argb)
		lastX, lastY = x, y
	}

	if style == ArcPie && full < 2*math.Pi {
		center := image.Pt(int(math.Floor(cx)), int(math.Floor(cy)))
		p.Line(image.Pt(firstX, firstY), center, argb)
		p.Line(image.Pt(lastX, lastY), center, argb)
	}
}

// Insert composites src over the buffer at the given offset.
func (p *Painter) Insert(src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(p.dst, r, src, src.Bounds().Min, draw.Over)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
