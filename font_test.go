package bitmap

import (
	"errors"
	"testing"
)

func TestParseFont(t *testing.T) {
	got, err := ParseFont("Roboto")
	if err != nil {
		t.Fatalf("ParseFont(string) error: %v", err)
	}
	if got.Name != "Roboto" {
		t.Errorf("ParseFont(string).Name = %q, want %q", got.Name, "Roboto")
	}

	f := Font{Name: "Roboto", Size: 14, Color: "red"}
	got, err = ParseFont(f)
	if err != nil {
		t.Fatalf("ParseFont(Font) error: %v", err)
	}
	if got != f {
		t.Errorf("ParseFont(Font) = %+v, want %+v", got, f)
	}

	got, err = ParseFont(&f)
	if err != nil {
		t.Fatalf("ParseFont(*Font) error: %v", err)
	}
	if got != f {
		t.Errorf("ParseFont(*Font) = %+v, want %+v", got, f)
	}
}

func TestParseFont_Invalid(t *testing.T) {
	for _, in := range []any{nil, 42, (*Font)(nil)} {
		if _, err := ParseFont(in); !errors.Is(err, ErrInvalidFont) {
			t.Errorf("ParseFont(%v): got %v, want ErrInvalidFont", in, err)
		}
	}
}

func TestRegisterFont_Invalid(t *testing.T) {
	if _, err := RegisterFont(nil); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("RegisterFont(nil): got %v, want ErrInvalidFont", err)
	}
	if _, err := RegisterFont([]byte("not a font")); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("RegisterFont(garbage): got %v, want ErrInvalidFont", err)
	}
}
