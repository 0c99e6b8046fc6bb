package matrix

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/matrix/draw"
	"github.com/BeatGlow/matrix/pixel"
)

var lit = Column{pixel.Red}

// stream builds a column stream from a picture: 'x' is a lit column and any
// other byte a blank one.
func stream(s string) ColumnStream {
	out := make(ColumnStream, len(s))
	for i := range s {
		if s[i] == 'x' {
			out[i] = lit
		}
	}
	return out
}

func picture(s ColumnStream) string {
	var b strings.Builder
	for _, c := range s {
		if c.IsBlank(pixel.Black) {
			b.WriteByte('.')
		} else {
			b.WriteByte('x')
		}
	}
	return b.String()
}

func TestCompact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"xxx", "xxx"},
		{"x..x", "x.x"},
		{"x.....x", "x.x"},
		{"x......x", "x......x"},
		{"x...........x", "x......x"},
		{"..x", ".x"},
		{"........x", "......x"},
		{"x...", "x"},
		{"....", ""},
		{"x.x..x......xx.", "x.x.x......xx"},
	}
	for _, test := range tests {
		got := stream(test.in).Compact(pixel.Black)
		assert.Equalf(t, test.want, picture(got), "compact %q", test.in)
		assert.Equalf(t, picture(got), picture(got.Compact(pixel.Black)), "compact %q is idempotent", test.in)
	}
}

func TestCompactKeepsInput(t *testing.T) {
	in := stream("x..x")
	in.Compact(pixel.Black)
	assert.Equal(t, "x..x", picture(in))
}

func TestCompactBackground(t *testing.T) {
	s := ColumnStream{Fill(pixel.Blue).Column(0), Fill(pixel.Blue).Column(0), lit}
	assert.Len(t, s.Compact(pixel.Blue), 2)
	assert.Len(t, s.Compact(pixel.Black), 3)
}

func TestCompose(t *testing.T) {
	compose := func(text string) string {
		return picture(Compose(RenderText(nil, text, pixel.White, pixel.Black), pixel.Black))
	}
	assert.Equal(t, ".xxxxx", compose("A"))
	assert.Equal(t, "......xxxxx", compose(" A"))
	assert.Empty(t, compose("   "))
	assert.NotContains(t, compose("3.14"), "..", "narrow glyphs are not word gaps")
	assert.Contains(t, compose("3 14"), "x......x")
	assert.NotContains(t, compose("3 14"), "x.......")
}

func TestComposePairs(t *testing.T) {
	for a := rune(0x21); a <= 0x7e; a++ {
		for b := rune(0x21); b <= 0x7e; b++ {
			got := picture(Compose(RenderText(nil, string([]rune{a, b}), pixel.White, pixel.Black), pixel.Black))
			if strings.Contains(got, "..") {
				t.Errorf("%q: expected single column gaps, got %s", string([]rune{a, b}), got)
			}
		}
	}
}

func TestComposeIsCompact(t *testing.T) {
	for _, text := range []string{"Hello, World!", "21.1C  55%", " a  b   c "} {
		s := Compose(RenderText(nil, text, pixel.White, pixel.Black), pixel.Black)
		assert.Equalf(t, picture(s), picture(s.Compact(pixel.Black)), "compose %q", text)
	}
}

func TestRenderText(t *testing.T) {
	patterns := RenderText(nil, "é\xffA", pixel.White, pixel.Black)
	assert.Len(t, patterns, 3, "one pattern per rune")
	assert.Equal(t, Render(nil, 255, pixel.White, pixel.Black), patterns[1], "invalid UTF-8 renders the fallback")
	assert.Equal(t, Render(nil, 'A', pixel.White, pixel.Black), patterns[2])
	assert.Len(t, Columns(patterns), 3*Size)
}

func TestWindow(t *testing.T) {
	s := stream("x.x")
	p := s.Window(0, pixel.Blue)
	assert.Equal(t, pixel.Red, p[0][0])
	assert.Equal(t, pixel.Black, p[0][1])
	assert.Equal(t, pixel.Red, p[0][2])
	for col := 3; col < Size; col++ {
		assert.Equal(t, Column(Fill(pixel.Blue)[0]), p.Column(col), "padding column %d", col)
	}

	p = stream("..........x").Window(3, pixel.Black)
	assert.Equal(t, pixel.Red, p[0][7])
}

func TestPatternImage(t *testing.T) {
	var p Pattern
	draw.Rectangle(&p, p.Bounds(), pixel.White)
	assert.Equal(t, pixel.White, p[0][3])
	assert.Equal(t, pixel.White, p[7][7])
	assert.Equal(t, pixel.Black, p[3][3])

	p.Set(2, 1, color.RGBA{R: 0xff, A: 0xff})
	assert.Equal(t, pixel.Red, p[1][2], "x is the column, y the row")
	assert.Equal(t, pixel.Red, p.At(2, 1))
	p.Set(8, 0, pixel.Red)
	assert.Equal(t, color.Transparent, p.At(8, 0))
	assert.Equal(t, image.Rect(0, 0, Size, Size), p.Bounds())

	f := Fill(pixel.Orange)
	for row := range f {
		for col := range f[row] {
			require.Equal(t, pixel.Orange, f[row][col])
		}
	}
}
