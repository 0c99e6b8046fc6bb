package glyph

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/matrix/pixel"
)

// LoadTTF rasterizes a TrueType font at size points (72 DPI) into a table
// covering the same runes as the built-in font.
func LoadTTF(name string, size float64) (*Table, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse %s: %w", name, err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	return FromFace(face, Default().Runes())
}

// FromFace rasterizes runes from face into 8x8 bitmaps. A pixel is set when the
// glyph covers at least half of it. Runes the face has no glyph for are
// skipped. The fallback glyph always comes from the built-in font.
func FromFace(face font.Face, runes []rune) (*Table, error) {
	baseline := face.Metrics().Ascent.Ceil()
	if baseline > Size-1 {
		baseline = Size - 1
	}

	glyphs := make(map[rune]Bitmap, len(runes)+1)
	for _, r := range runes {
		if r == Fallback {
			continue
		}
		if _, ok := face.GlyphAdvance(r); !ok {
			continue
		}
		dst := pixel.NewMonoImage(Size, Size)
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(1, baseline),
		}
		d.DrawString(string(r))

		var b Bitmap
		copy(b[:], dst.Pix)
		glyphs[r] = b
	}
	glyphs[Fallback] = Default().Lookup(Fallback)
	return New(glyphs)
}
