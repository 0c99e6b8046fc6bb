// Package glyph provides 8x8 bitmap fonts for LED matrix text rendering.
//
// A [Table] maps runes to [Bitmap] patterns. Every table carries a fallback
// glyph at code [Fallback]; lookups of runes missing from the table resolve
// to it, so rendering never fails.
package glyph

import (
	"errors"
	"image"
	"image/color"
	"sort"

	"github.com/BeatGlow/matrix/pixel"
)

const (
	// Size is the width and height of a glyph in pixels.
	Size = 8

	// Fallback is the code of the glyph shown for unknown runes.
	Fallback rune = 255
)

// Errors
var (
	ErrNoFallback = errors.New("glyph: table has no fallback glyph")
)

// Bitmap is an 8x8 glyph pattern. Each byte is one row, top to bottom; bit x
// of a row is the pixel in column x.
type Bitmap [Size]uint8

// IsSet reports whether the pixel at column x, row y is a foreground pixel.
func (b Bitmap) IsSet(x, y int) bool {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return false
	}
	return b[y]&(1<<uint(x)) != 0
}

// Empty reports whether no pixel is set.
func (b Bitmap) Empty() bool {
	return b == Bitmap{}
}

func (b Bitmap) ColorModel() color.Model {
	return pixel.MonoModel
}

func (b Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, Size, Size)
}

func (b Bitmap) At(x, y int) color.Color {
	return pixel.Mono{On: b.IsSet(x, y)}
}

// Table is an immutable rune to glyph mapping.
type Table struct {
	glyphs map[rune]Bitmap
}

// New builds a table from glyphs. The map is copied; it must contain the
// Fallback glyph.
func New(glyphs map[rune]Bitmap) (*Table, error) {
	if _, ok := glyphs[Fallback]; !ok {
		return nil, ErrNoFallback
	}
	t := &Table{glyphs: make(map[rune]Bitmap, len(glyphs))}
	for r, b := range glyphs {
		t.glyphs[r] = b
	}
	return t, nil
}

// Lookup returns the glyph for r, or the fallback glyph if r is not in the table.
func (t *Table) Lookup(r rune) Bitmap {
	if b, ok := t.glyphs[r]; ok {
		return b
	}
	return t.glyphs[Fallback]
}

// Has reports whether r has its own glyph.
func (t *Table) Has(r rune) bool {
	_, ok := t.glyphs[r]
	return ok
}

// Len is the number of glyphs, including the fallback.
func (t *Table) Len() int {
	return len(t.glyphs)
}

// Runes returns the table's runes in ascending order.
func (t *Table) Runes() []rune {
	runes := make([]rune, 0, len(t.glyphs))
	for r := range t.glyphs {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}
