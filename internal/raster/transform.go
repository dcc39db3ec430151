package raster

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// CloneBuffer returns an independent copy of a buffer.
func CloneBuffer(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// CropCopy copies a sub-region into a new zero-origin buffer.
// The region is clipped to the source bounds.
func CropCopy(src *image.NRGBA, region image.Rectangle) *image.NRGBA {
	region = region.Intersect(src.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(dst, dst.Bounds(), src, region.Min, draw.Src)
	return dst
}

// Resample scales a buffer to the given dimensions with Catmull-Rom
// interpolation.
func Resample(src *image.NRGBA, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Rotate returns the buffer rotated clockwise by degrees. Multiples of
// 90 use exact pixel shuffles; other angles resample into an enlarged
// bounding box through an affine transform.
func Rotate(src *image.NRGBA, degrees float64) *image.NRGBA {
	deg := math.Mod(degrees, 360)
	if deg < 0 {
		deg += 360
	}

	switch deg {
	case 0:
		return CloneBuffer(src)
	case 90:
		return rotate90(src)
	case 180:
		return rotate180(src)
	case 270:
		return rotate270(src)
	}

	w := float64(src.Bounds().Dx())
	h := float64(src.Bounds().Dy())
	theta := deg * math.Pi / 180
	sin, cos := math.Sincos(theta)

	nw := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	nh := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))

	// Map the source center onto the destination center.
	cx, cy := w/2, h/2
	dx, dy := float64(nw)/2, float64(nh)/2
	m := f64.Aff3{
		cos, -sin, dx - cos*cx + sin*cy,
		sin, cos, dy - sin*cx - cos*cy,
	}
	xdraw.CatmullRom.Transform(dst, m, src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func rotate90(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(h-1-y, x, src.NRGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func rotate180(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(w-1-x, h-1-y, src.NRGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func rotate270(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(y, w-1-x, src.NRGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
