package bitmap

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/bitmap/backend"
)

// backendNames enumerates the built-in backends; facade behavior must
// be identical on both models unless a test says otherwise.
var backendNames = []string{"canvas", "quartz"}

func newTestBitmap(t *testing.T, name string, w, h int) *Bitmap {
	t.Helper()
	b, err := Create(w, h, &Options{Backend: name})
	if err != nil {
		t.Fatalf("Create(%d, %d) on %s: %v", w, h, name, err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestCreate_SquareDefault(t *testing.T) {
	b, err := Create(10, 0, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer b.Close()
	if b.Width() != 10 || b.Height() != 10 {
		t.Errorf("Create(10, 0) = %dx%d, want 10x10", b.Width(), b.Height())
	}
}

func TestCreate_InvalidDimensions(t *testing.T) {
	if _, err := Create(0, 0, nil); err == nil {
		t.Error("Create(0, 0): want error, got nil")
	}
	if _, err := Create(-5, 10, nil); err == nil {
		t.Error("Create(-5, 10): want error, got nil")
	}
}

func TestDrawRect_EncodeRoundtrip(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 10, 10)

			if _, err := b.DrawRect("10x10", "0|0", "#ff0000", "#ff0000"); err != nil {
				t.Fatalf("DrawRect: %v", err)
			}

			s, err := b.ToBase64(FormatPNG, 100)
			if err != nil {
				t.Fatalf("ToBase64: %v", err)
			}
			if s == "" {
				t.Fatal("ToBase64: empty result")
			}

			decoded, err := AsBitmap(s)
			if err != nil {
				t.Fatalf("AsBitmap(base64): %v", err)
			}
			defer decoded.Close()

			if decoded.Width() != 10 || decoded.Height() != 10 {
				t.Errorf("decoded size = %dx%d, want 10x10", decoded.Width(), decoded.Height())
			}
			corner, err := decoded.GetPoint(nil)
			if err != nil {
				t.Fatalf("GetPoint: %v", err)
			}
			if want := (ARGB{0xff, 0xff, 0x00, 0x00}); corner != want {
				t.Errorf("corner pixel = %v, want %v", corner, want)
			}
		})
	}
}

func TestDraw_Chaining(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 8, 8)
			got, err := b.DrawLine("0|0", "7|7", "red")
			if err != nil {
				t.Fatalf("DrawLine: %v", err)
			}
			if got != b {
				t.Error("DrawLine did not return the receiver")
			}
			got, err = b.DrawRect(nil, nil, nil, nil)
			if err != nil {
				t.Fatalf("DrawRect: %v", err)
			}
			if got != b {
				t.Error("DrawRect did not return the receiver")
			}
		})
	}
}

func TestDrawCircle_MatchesSquareOval(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			circle := newTestBitmap(t, name, 20, 20)
			oval := newTestBitmap(t, name, 20, 20)

			if _, err := circle.DrawCircle(10, "10|10", "red", "blue"); err != nil {
				t.Fatalf("DrawCircle: %v", err)
			}
			if _, err := oval.DrawOval("20x20", "0|0", "red", "blue"); err != nil {
				t.Fatalf("DrawOval: %v", err)
			}

			cb, err := circle.ToBase64(FormatPNG, 100)
			if err != nil {
				t.Fatalf("ToBase64: %v", err)
			}
			ob, err := oval.ToBase64(FormatPNG, 100)
			if err != nil {
				t.Fatalf("ToBase64: %v", err)
			}
			if cb != ob {
				t.Error("circle and equivalent square oval are not pixel-identical")
			}
		})
	}
}

func TestDrawCircle_Defaults(t *testing.T) {
	b := newTestBitmap(t, "canvas", 40, 20)
	// Center defaults to (20, 10), radius to min(40-20, 20-10)/2 = 5.
	if _, err := b.DrawCircle(0, nil, "red", "red"); err != nil {
		t.Fatalf("DrawCircle: %v", err)
	}
	center, err := b.GetPoint("20|10")
	if err != nil {
		t.Fatalf("GetPoint: %v", err)
	}
	if want := (ARGB{0xff, 0xff, 0x00, 0x00}); center != want {
		t.Errorf("center pixel = %v, want %v", center, want)
	}
	outside, err := b.GetPoint("20|2")
	if err != nil {
		t.Fatalf("GetPoint: %v", err)
	}
	if outside != (ARGB{}) {
		t.Errorf("pixel outside default radius = %v, want transparent", outside)
	}
}

func TestSetPoint_GetPoint(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 8, 8)
			if _, err := b.SetPoint("3|4", "#80102030"); err != nil {
				t.Fatalf("SetPoint: %v", err)
			}
			got, err := b.GetPoint("3|4")
			if err != nil {
				t.Fatalf("GetPoint: %v", err)
			}
			if want := (ARGB{0x80, 0x10, 0x20, 0x30}); got != want {
				t.Errorf("GetPoint = %v, want %v", got, want)
			}

			if _, err := b.GetPoint("100|100"); !errors.Is(err, backend.ErrOutOfBounds) {
				t.Errorf("GetPoint out of bounds: got %v, want ErrOutOfBounds", err)
			}
		})
	}
}

func TestDefaultColor(t *testing.T) {
	b := newTestBitmap(t, "canvas", 5, 5)
	if b.DefaultColor() != (ARGB{A: 0xff}) {
		t.Fatalf("initial default color = %v, want opaque black", b.DefaultColor())
	}

	if _, err := b.SetPoint("0|0", nil); err != nil {
		t.Fatalf("SetPoint: %v", err)
	}
	got, _ := b.GetPoint(nil)
	if got != (ARGB{A: 0xff}) {
		t.Errorf("pixel = %v, want opaque black", got)
	}

	if err := b.SetDefaultColor("red"); err != nil {
		t.Fatalf("SetDefaultColor: %v", err)
	}
	if _, err := b.SetPoint("1|1", nil); err != nil {
		t.Fatalf("SetPoint: %v", err)
	}
	got, _ = b.GetPoint("1|1")
	if want := (ARGB{0xff, 0xff, 0x00, 0x00}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}

	if err := b.SetDefaultColor("bogus"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("SetDefaultColor(bogus): got %v, want ErrInvalidColor", err)
	}
}

func TestInsert(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			dst := newTestBitmap(t, name, 10, 10)
			src := newTestBitmap(t, name, 4, 4)
			if _, err := src.DrawRect(nil, nil, "red", "red"); err != nil {
				t.Fatalf("DrawRect: %v", err)
			}

			if _, err := dst.Insert(src, "2|2"); err != nil {
				t.Fatalf("Insert: %v", err)
			}
			got, _ := dst.GetPoint("2|2")
			if want := (ARGB{0xff, 0xff, 0x00, 0x00}); got != want {
				t.Errorf("inserted pixel = %v, want %v", got, want)
			}
			got, _ = dst.GetPoint(nil)
			if got != (ARGB{}) {
				t.Errorf("pixel outside insert = %v, want transparent", got)
			}
		})
	}
}

func TestCrop(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 10, 10)
			if _, err := b.SetPoint("5|5", "lime"); err != nil {
				t.Fatalf("SetPoint: %v", err)
			}

			cropped, err := b.Crop("4|4", "3x3")
			if err != nil {
				t.Fatalf("Crop: %v", err)
			}
			defer cropped.Close()

			if cropped.Width() != 3 || cropped.Height() != 3 {
				t.Errorf("cropped size = %dx%d, want 3x3", cropped.Width(), cropped.Height())
			}
			got, _ := cropped.GetPoint("1|1")
			if want := (ARGB{0xff, 0x00, 0xff, 0x00}); got != want {
				t.Errorf("cropped pixel = %v, want %v", got, want)
			}
			// The receiver is untouched.
			if b.Width() != 10 {
				t.Errorf("source width changed to %d", b.Width())
			}
		})
	}
}

func TestRotate(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 10, 20)
			if _, err := b.SetPoint("0|0", "red"); err != nil {
				t.Fatalf("SetPoint: %v", err)
			}

			r, err := b.Rotate(90)
			if err != nil {
				t.Fatalf("Rotate: %v", err)
			}
			defer r.Close()

			if r.Width() != 20 || r.Height() != 10 {
				t.Errorf("rotated size = %dx%d, want 20x10", r.Width(), r.Height())
			}
			got, _ := r.GetPoint("19|0")
			if want := (ARGB{0xff, 0xff, 0x00, 0x00}); got != want {
				t.Errorf("rotated pixel = %v, want %v", got, want)
			}
		})
	}
}

func TestResize_AspectRatio(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 100, 50)

			rw, err := b.ResizeWidth(50)
			if err != nil {
				t.Fatalf("ResizeWidth: %v", err)
			}
			defer rw.Close()
			if rw.Width() != 50 {
				t.Errorf("ResizeWidth(50).Width = %d, want 50", rw.Width())
			}
			gotRatio := float64(rw.Height()) / float64(rw.Width())
			wantRatio := float64(b.Height()) / float64(b.Width())
			if math.Abs(gotRatio-wantRatio) > 0.05 {
				t.Errorf("aspect ratio = %v, want %v", gotRatio, wantRatio)
			}

			rh, err := b.ResizeHeight(25)
			if err != nil {
				t.Fatalf("ResizeHeight: %v", err)
			}
			defer rh.Close()
			if rh.Height() != 25 || rh.Width() != 50 {
				t.Errorf("ResizeHeight(25) = %dx%d, want 50x25", rh.Width(), rh.Height())
			}
		})
	}
}

func TestResizeMax(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		max          float64
		wantW, wantH int
	}{
		{name: "wide", w: 100, h: 50, max: 10, wantW: 10, wantH: 5},
		{name: "tall", w: 50, h: 100, max: 10, wantW: 5, wantH: 10},
		{name: "square", w: 50, h: 50, max: 10, wantW: 10, wantH: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBitmap(t, "canvas", tt.w, tt.h)
			r, err := b.ResizeMax(tt.max)
			if err != nil {
				t.Fatalf("ResizeMax: %v", err)
			}
			defer r.Close()
			if r.Width() != tt.wantW || r.Height() != tt.wantH {
				t.Errorf("ResizeMax(%v) = %dx%d, want %dx%d",
					tt.max, r.Width(), r.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSize_AlwaysCurrent(t *testing.T) {
	b := newTestBitmap(t, "canvas", 12, 7)
	if got := b.Size(); got != (Size{12, 7}) {
		t.Errorf("Size() = %v, want {12 7}", got)
	}
}

func TestWriteText(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 60, 20)
			if _, err := b.DrawRect(nil, nil, "white", "white"); err != nil {
				t.Fatalf("DrawRect: %v", err)
			}
			if _, err := b.WriteText("Hi", "1|1", Font{Color: "black"}); err != nil {
				t.Fatalf("WriteText: %v", err)
			}

			img := b.Image()
			changed := false
			bounds := img.Bounds()
			for y := bounds.Min.Y; y < bounds.Max.Y && !changed; y++ {
				for x := bounds.Min.X; x < bounds.Max.X; x++ {
					r, g, bl, _ := img.At(x, y).RGBA()
					if r != 0xffff || g != 0xffff || bl != 0xffff {
						changed = true
						break
					}
				}
			}
			if !changed {
				t.Error("WriteText left the bitmap unchanged")
			}
		})
	}
}

func TestMeasureText(t *testing.T) {
	b := newTestBitmap(t, "canvas", 10, 10)
	w, h, err := b.MeasureText("hello", nil)
	if err != nil {
		t.Fatalf("MeasureText: %v", err)
	}
	if w <= 0 || h <= 0 {
		t.Errorf("MeasureText = (%v, %v), want positive dimensions", w, h)
	}
}

func TestToDataURL(t *testing.T) {
	b := newTestBitmap(t, "canvas", 4, 4)
	url, err := b.ToDataURL(FormatPNG, 100)
	if err != nil {
		t.Fatalf("ToDataURL: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		t.Errorf("ToDataURL = %q, want %q prefix", url, prefix)
	}
}

func TestToObject_Defaults(t *testing.T) {
	b := newTestBitmap(t, "canvas", 4, 4)
	d, err := b.ToObject(0, 0)
	if err != nil {
		t.Fatalf("ToObject: %v", err)
	}
	if d.Mime != "image/png" {
		t.Errorf("default format mime = %q, want image/png", d.Mime)
	}
	if d.Base64 == "" {
		t.Error("ToObject: empty base64")
	}
}

func TestToObject_JPEGQualityRange(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 4, 4)

			// Quality 0 is a valid explicit setting, not a request for
			// the default.
			d, err := b.ToObject(FormatJPEG, 0)
			if err != nil {
				t.Fatalf("ToObject(JPEG, 0): %v", err)
			}
			if d.Mime != "image/jpeg" || d.Base64 == "" {
				t.Errorf("ToObject(JPEG, 0) = %+v", d)
			}

			// Negative quality selects the default.
			d, err = b.ToObject(FormatJPEG, -1)
			if err != nil {
				t.Fatalf("ToObject(JPEG, -1): %v", err)
			}
			if d.Mime != "image/jpeg" || d.Base64 == "" {
				t.Errorf("ToObject(JPEG, -1) = %+v", d)
			}
		})
	}
}

func TestToObject_UnsupportedFormat(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 4, 4)
			if _, err := b.ToObject(OutputFormat(9), 100); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ToObject(9): got %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestDispose_Idempotent(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 4, 4)
			b.Dispose(nil, nil)
			if !b.IsDisposed() {
				t.Fatal("IsDisposed = false after Dispose")
			}
			// Second call must not panic and must do nothing.
			calls := 0
			result := b.Dispose(func(*Bitmap, any) any { calls++; return "x" }, nil)
			if calls != 0 || result != nil {
				t.Errorf("second Dispose ran the action (calls=%d, result=%v)", calls, result)
			}

			if _, err := b.DrawLine("0|0", "1|1", nil); !errors.Is(err, ErrDisposed) {
				t.Errorf("draw after dispose: got %v, want ErrDisposed", err)
			}
			if _, err := b.Clone(); !errors.Is(err, ErrDisposed) {
				t.Errorf("clone after dispose: got %v, want ErrDisposed", err)
			}
		})
	}
}

func TestDispose_ActionResult(t *testing.T) {
	b := newTestBitmap(t, "canvas", 4, 4)
	var gotBitmap *Bitmap
	var gotTag any
	result := b.Dispose(func(bb *Bitmap, tag any) any {
		gotBitmap = bb
		gotTag = tag
		return 42
	}, "the-tag")

	if result != 42 {
		t.Errorf("Dispose result = %v, want 42", result)
	}
	if gotBitmap != b || gotTag != "the-tag" {
		t.Errorf("action args = (%v, %v), want (receiver, the-tag)", gotBitmap, gotTag)
	}
	if !b.IsDisposed() {
		t.Error("bitmap not disposed after action")
	}
}

func TestDispose_ReleasesOnPanic(t *testing.T) {
	b := newTestBitmap(t, "canvas", 4, 4)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the action's panic to propagate")
			}
		}()
		b.Dispose(func(*Bitmap, any) any { panic("boom") }, nil)
	}()
	if !b.IsDisposed() {
		t.Error("resource not released after panicking action")
	}
}

func TestClone_Independent(t *testing.T) {
	for _, name := range backendNames {
		t.Run(name, func(t *testing.T) {
			b := newTestBitmap(t, name, 6, 6)
			c, err := b.Clone()
			if err != nil {
				t.Fatalf("Clone: %v", err)
			}
			defer c.Close()

			if _, err := b.SetPoint("0|0", "red"); err != nil {
				t.Fatalf("SetPoint: %v", err)
			}
			got, _ := c.GetPoint(nil)
			if got != (ARGB{}) {
				t.Errorf("clone pixel = %v after mutating source, want transparent", got)
			}
		})
	}
}
