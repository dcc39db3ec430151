// Package text resolves font names to faces and renders text for the
// platform backends. Fonts are registered once per process and looked
// up by family name at draw time; an unknown name falls back to a
// built-in bitmap face so text drawing never fails on a missing font.
//
// Parsing is split between two libraries on purpose: glyph
// rasterization goes through golang.org/x/image/font/opentype, while
// measurement uses go-text/typesetting's HarfBuzz shaper, which
// accounts for kerning and ligatures.
package text

import (
	"bytes"
	"fmt"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Source holds one parsed font file.
// Source is safe for concurrent use; both parsed forms are read-only.
type Source struct {
	data   []byte
	parsed *sfnt.Font   // rasterization (x/image)
	shaped *gtfont.Font // shaping/measurement (go-text)
	name   string
}

// Name returns the font family name extracted from the name table.
func (s *Source) Name() string { return s.name }

// registry maps family names to sources.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Source)
)

// Register parses TTF/OTF data and registers it under its family name.
// The data slice is copied. Returns the family name the font was
// registered under. Registering the same family again replaces it.
func Register(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("text: empty font data")
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return "", fmt.Errorf("text: failed to parse font: %w", err)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	face, err := gtfont.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return "", fmt.Errorf("text: failed to parse font for shaping: %w", err)
	}

	name := familyName(parsed)
	if name == "" {
		return "", fmt.Errorf("text: font has no family name")
	}

	src := &Source{
		data:   dataCopy,
		parsed: parsed,
		shaped: face.Font,
		name:   name,
	}

	registryMu.Lock()
	registry[name] = src
	registryMu.Unlock()

	return name, nil
}

// Lookup returns the source registered under name, or nil.
func Lookup(name string) *Source {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Registered returns the registered family names.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// familyName reads the family name from the font's name table.
func familyName(f *sfnt.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return ""
}
