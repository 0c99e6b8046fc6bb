package matrix

import (
	"encoding/binary"

	"github.com/BeatGlow/matrix/pixel"
)

// Buffer is the 8x8 pixel buffer. Pixels are stored little endian, the
// layout of the Sense HAT framebuffer.
type Buffer struct {
	*pixel.CRGB16Image
}

// NewBuffer returns a black buffer.
func NewBuffer() *Buffer {
	img := pixel.NewCRGB16Image(Size, Size)
	img.Order = binary.LittleEndian
	return &Buffer{CRGB16Image: img}
}

// wrap brings a coordinate into [0, Size): negative values clamp to 0, the
// rest are taken modulo Size.
func wrap(v int) int {
	if v < 0 {
		return 0
	}
	return v % Size
}

// Point returns the color at (row, col) after wraparound.
func (b *Buffer) Point(row, col int) pixel.CRGB16 {
	return b.CRGB16At(wrap(col), wrap(row))
}

// SetPoint sets the color at (row, col) after wraparound.
func (b *Buffer) SetPoint(row, col int, c pixel.CRGB16) {
	b.SetCRGB16(wrap(col), wrap(row), c)
}

// Pattern returns a copy of the buffer contents.
func (b *Buffer) Pattern() (p Pattern) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p[row][col] = b.Point(row, col)
		}
	}
	return
}
