package matrix

import (
	"image"
	"image/color"

	"github.com/BeatGlow/matrix/draw"
	"github.com/BeatGlow/matrix/glyph"
	"github.com/BeatGlow/matrix/pixel"
)

// WordGap is the widest blank gap kept between two glyph columns after
// compaction.
const WordGap = 6

// Pattern is a full 8x8 image indexed as [row][column].
type Pattern [Size][Size]pixel.CRGB16

var _ draw.Image = (*Pattern)(nil)

// Fill returns a pattern of a single color.
func Fill(c pixel.CRGB16) (p Pattern) {
	draw.Box(&p, p.Bounds(), c)
	return
}

func (p *Pattern) ColorModel() color.Model {
	return pixel.CRGB16Model
}

func (p *Pattern) Bounds() image.Rectangle {
	return image.Rect(0, 0, Size, Size)
}

// At returns the pixel in column x of row y.
func (p *Pattern) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Bounds()) {
		return color.Transparent
	}
	return p[y][x]
}

// Set the pixel in column x of row y. Out of range points are ignored.
func (p *Pattern) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Bounds()) {
		return
	}
	p[y][x] = pixel.CRGB16Model.Convert(c).(pixel.CRGB16)
}

// Column returns column col of the pattern.
func (p Pattern) Column(col int) (c Column) {
	for row := 0; row < Size; row++ {
		c[row] = p[row][col]
	}
	return
}

// Render draws the glyph for r in fg on bg. A nil table uses the built-in font.
func Render(t *glyph.Table, r rune, fg, bg pixel.CRGB16) (p Pattern) {
	if t == nil {
		t = glyph.Default()
	}
	b := t.Lookup(r)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.IsSet(col, row) {
				p[row][col] = fg
			} else {
				p[row][col] = bg
			}
		}
	}
	return
}

// RenderText renders every rune of the UTF-8 text. Invalid bytes decode to
// U+FFFD, which renders as the fallback glyph.
func RenderText(t *glyph.Table, text string, fg, bg pixel.CRGB16) []Pattern {
	patterns := make([]Pattern, 0, len(text))
	for _, r := range text {
		patterns = append(patterns, Render(t, r, fg, bg))
	}
	return patterns
}

// Column is one vertical slice of 8 pixels, top to bottom.
type Column [Size]pixel.CRGB16

// IsBlank reports if every pixel of the column is bg.
func (c Column) IsBlank(bg pixel.CRGB16) bool {
	for _, v := range c {
		if v != bg {
			return false
		}
	}
	return true
}

// ColumnStream is the left to right concatenation of glyph columns.
type ColumnStream []Column

// Columns concatenates the columns of all patterns.
func Columns(patterns []Pattern) ColumnStream {
	s := make(ColumnStream, 0, len(patterns)*Size)
	for i := range patterns {
		for col := 0; col < Size; col++ {
			s = append(s, patterns[i].Column(col))
		}
	}
	return s
}

// Compose flattens rendered text into a compact column stream. A blank run
// holding a whole blank glyph, such as a space, becomes WordGap columns; any
// other gap between glyphs collapses to a single column. The run ending the
// stream is dropped.
func Compose(patterns []Pattern, bg pixel.CRGB16) ColumnStream {
	s := Columns(patterns)
	space := make([]bool, len(s))
	blank := Fill(bg)
	for i := range patterns {
		if patterns[i] == blank {
			for col := 0; col < Size; col++ {
				space[i*Size+col] = true
			}
		}
	}
	return s.compact(bg, space)
}

// Compact returns a copy of s with its blank gaps tightened: a run of blank
// columns shorter than WordGap collapses to a single column, a longer run is
// cut to WordGap columns and the run ending the stream is dropped.
func (s ColumnStream) Compact(bg pixel.CRGB16) ColumnStream {
	return s.compact(bg, nil)
}

// compact tightens the blank runs of s. With a nil space mask the run length
// decides the gap width, otherwise only runs touching a masked column keep
// WordGap columns.
func (s ColumnStream) compact(bg pixel.CRGB16, space []bool) ColumnStream {
	out := make(ColumnStream, 0, len(s))
	for i := 0; i < len(s); {
		if !s[i].IsBlank(bg) {
			out = append(out, s[i])
			i++
			continue
		}
		j := i
		wide := false
		for j < len(s) && s[j].IsBlank(bg) {
			if space != nil && space[j] {
				wide = true
			}
			j++
		}
		if j == len(s) {
			break
		}
		if space == nil {
			wide = j-i >= WordGap
		}
		keep := 1
		if wide {
			keep = WordGap
		}
		out = append(out, s[i:i+keep]...)
		i = j
	}
	return out
}

// Window returns the 8 columns starting at offset as a pattern. Columns past
// the end of the stream are filled with bg.
func (s ColumnStream) Window(offset int, bg pixel.CRGB16) (p Pattern) {
	for col := 0; col < Size; col++ {
		c := blankColumn(bg)
		if i := offset + col; i >= 0 && i < len(s) {
			c = s[i]
		}
		for row := 0; row < Size; row++ {
			p[row][col] = c[row]
		}
	}
	return
}

func blankColumn(bg pixel.CRGB16) (c Column) {
	for row := range c {
		c[row] = bg
	}
	return
}
