package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// shaperPool pools HarfbuzzShaper instances. HarfbuzzShaper has
// internal mutable state and is not safe for concurrent use, but
// reusing instances across sequential calls is efficient.
var shaperPool = sync.Pool{
	New: func() any {
		return &shaping.HarfbuzzShaper{}
	},
}

// Advance returns the shaped horizontal advance of text in pixels for
// the given registered source at the given size. Shaping goes through
// HarfBuzz, so kerning pairs and ligatures are accounted for.
func Advance(src *Source, text string, size float64) float64 {
	if src == nil || text == "" {
		return 0
	}

	runes := []rune(text)
	dir := di.DirectionLTR
	if baseDirection(text) == bidi.RightToLeft {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		// font.Face is not safe for concurrent use; create a cheap
		// per-call wrapper around the shared read-only Font.
		Face:     gtfont.NewFace(src.shaped),
		Size:     floatToFixed(size),
		Script:   detectScript(runes),
		Language: language.NewLanguage("en"),
	}

	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	shaperPool.Put(hb)

	var advance fixed.Int26_6
	for _, g := range output.Glyphs {
		advance += g.XAdvance
	}
	return fixedToFloat(advance)
}

// fallbackAdvance measures text with the built-in face.
func fallbackAdvance(text string) float64 {
	return fixedToFloat(font.MeasureString(fallbackFace(), text))
}

// baseDirection resolves the paragraph base direction of text. The
// direction is read from the resolved run ordering; text that cannot
// be ordered counts as left-to-right.
func baseDirection(text string) bidi.Direction {
	p := bidi.Paragraph{}
	if _, err := p.SetString(text); err != nil {
		return bidi.LeftToRight
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return bidi.LeftToRight
	}
	return ordering.Direction()
}

// detectScript returns the script of the first non-space rune.
// Mixed-script runs are shaped with the leading script; callers that
// need per-run splitting should segment beforehand.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 size to 26.6 fixed point.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts 26.6 fixed point to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
