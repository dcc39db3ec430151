package bitmap

import (
	"errors"
	"image"
	"testing"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Point2D
	}{
		{name: "pipe", input: "10|20", want: Point2D{10, 20}},
		{name: "comma", input: "10,20", want: Point2D{10, 20}},
		{name: "whitespace", input: " 10 | 20 ", want: Point2D{10, 20}},
		{name: "floats", input: "1.5|2.25", want: Point2D{1.5, 2.25}},
		{name: "negative", input: "-3|4", want: Point2D{-3, 4}},
		{name: "value", input: Point2D{7, 8}, want: Point2D{7, 8}},
		{name: "pointer", input: &Point2D{7, 8}, want: Point2D{7, 8}},
		{name: "image point", input: image.Pt(3, 4), want: Point2D{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePoint(tt.input)
			if err != nil {
				t.Fatalf("ParsePoint(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePoint(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePoint_Invalid(t *testing.T) {
	inputs := []any{nil, "10", "10|", "|20", "10x20", "a|b", 42, ""}
	for _, in := range inputs {
		if _, err := ParsePoint(in); !errors.Is(err, ErrInvalidPoint) {
			t.Errorf("ParsePoint(%v): got %v, want ErrInvalidPoint", in, err)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Size
	}{
		{name: "x separator", input: "100x50", want: Size{100, 50}},
		{name: "comma", input: "100,50", want: Size{100, 50}},
		{name: "uppercase X", input: "100X50", want: Size{100, 50}},
		{name: "whitespace", input: " 100 x 50 ", want: Size{100, 50}},
		{name: "floats", input: "1.5x2.5", want: Size{1.5, 2.5}},
		{name: "value", input: Size{32, 16}, want: Size{32, 16}},
		{name: "pointer", input: &Size{32, 16}, want: Size{32, 16}},
		{name: "image point", input: image.Pt(8, 4), want: Size{8, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if err != nil {
				t.Fatalf("ParseSize(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSize_Invalid(t *testing.T) {
	inputs := []any{nil, "100", "100x", "x50", "100|50", 42, ""}
	for _, in := range inputs {
		if _, err := ParseSize(in); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("ParseSize(%v): got %v, want ErrInvalidSize", in, err)
		}
	}
}
