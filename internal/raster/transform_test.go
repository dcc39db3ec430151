package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestCloneBuffer_Independent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	src.SetNRGBA(1, 1, color.NRGBA{R: 0xff, A: 0xff})

	dst := CloneBuffer(src)
	if dst.NRGBAAt(1, 1) != src.NRGBAAt(1, 1) {
		t.Fatal("clone differs from source")
	}
	dst.SetNRGBA(1, 1, color.NRGBA{G: 0xff, A: 0xff})
	if src.NRGBAAt(1, 1).G != 0 {
		t.Error("mutating the clone reached the source")
	}
}

func TestCropCopy_ClipsAndRebases(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	src.SetNRGBA(7, 8, color.NRGBA{B: 0xff, A: 0xff})

	dst := CropCopy(src, image.Rect(5, 5, 15, 15))
	if dst.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("cropped bounds = %v, want (0,0)-(5,5)", dst.Bounds())
	}
	if dst.NRGBAAt(2, 3) != (color.NRGBA{B: 0xff, A: 0xff}) {
		t.Errorf("cropped pixel = %v", dst.NRGBAAt(2, 3))
	}
}

func TestResample_Dimensions(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 0x80, A: 0xff})
		}
	}
	dst := Resample(src, 16, 8)
	if dst.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Fatalf("resampled bounds = %v", dst.Bounds())
	}
	// A uniform image stays uniform through interpolation.
	if got := dst.NRGBAAt(8, 4); got.A != 0xff || got.R != 0x80 {
		t.Errorf("interior pixel = %v", got)
	}
}

func TestRotate_ExactQuarterTurns(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	mark := color.NRGBA{R: 0xff, A: 0xff}
	src.SetNRGBA(0, 0, mark)

	tests := []struct {
		degrees float64
		wantW   int
		wantH   int
		wantAt  image.Point
	}{
		{0, 4, 2, image.Pt(0, 0)},
		{90, 2, 4, image.Pt(1, 0)},
		{180, 4, 2, image.Pt(3, 1)},
		{270, 2, 4, image.Pt(0, 3)},
		{-90, 2, 4, image.Pt(0, 3)},
		{450, 2, 4, image.Pt(1, 0)},
	}
	for _, tt := range tests {
		dst := Rotate(src, tt.degrees)
		if dst.Bounds().Dx() != tt.wantW || dst.Bounds().Dy() != tt.wantH {
			t.Errorf("Rotate(%v): size = %dx%d, want %dx%d",
				tt.degrees, dst.Bounds().Dx(), dst.Bounds().Dy(), tt.wantW, tt.wantH)
			continue
		}
		if got := dst.NRGBAAt(tt.wantAt.X, tt.wantAt.Y); got != mark {
			t.Errorf("Rotate(%v): marker at %v = %v, want %v", tt.degrees, tt.wantAt, got, mark)
		}
	}
}

func TestRotate_ArbitraryAngleGrowsBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.SetNRGBA(x, y, color.NRGBA{G: 0xff, A: 0xff})
		}
	}
	dst := Rotate(src, 45)

	// A 10x10 square rotated 45° needs a bounding box of about 10*sqrt(2).
	if dst.Bounds().Dx() < 14 || dst.Bounds().Dx() > 16 {
		t.Errorf("rotated width = %d, want about 15", dst.Bounds().Dx())
	}
	if dst.Bounds().Dy() < 14 || dst.Bounds().Dy() > 16 {
		t.Errorf("rotated height = %d, want about 15", dst.Bounds().Dy())
	}
	// The center keeps the source content, the corners are empty.
	c := dst.Bounds().Dx() / 2
	if dst.NRGBAAt(c, c).A == 0 {
		t.Error("rotated center is empty")
	}
	if dst.NRGBAAt(0, 0).A != 0 {
		t.Error("rotated corner holds content")
	}
}
