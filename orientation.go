package matrix

import (
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/matrix/pixel"
)

// Orientation is the display rotation in degrees.
type Orientation int

// Supported orientations. Negative angles are accepted by ParseOrientation and
// are equivalent to their positive counterpart.
const (
	Rotate0   Orientation = 0
	Rotate90  Orientation = 90  // Rotate 90° clock wise
	Rotate180 Orientation = 180 // Rotate 180°
	Rotate270 Orientation = 270 // Rotate 270° clock wise
)

// ParseOrientation accepts 0, ±90, ±180 and ±270.
func ParseOrientation(degrees int) (Orientation, error) {
	switch degrees {
	case 0, 90, 180, 270, -90, -180, -270:
		return Orientation(degrees).Normalize(), nil
	default:
		return Rotate0, fmt.Errorf("%w: %d°", ErrOrientation, degrees)
	}
}

// Normalize maps negative angles onto 0, 90, 180 or 270.
func (o Orientation) Normalize() Orientation {
	switch o {
	case -90:
		return Rotate270
	case -180:
		return Rotate180
	case -270:
		return Rotate90
	default:
		return o
	}
}

// Inverse returns the orientation undoing o.
func (o Orientation) Inverse() Orientation {
	switch o.Normalize() {
	case Rotate90:
		return Rotate270
	case Rotate270:
		return Rotate90
	default:
		return o.Normalize()
	}
}

// Place maps a logical (row, column) onto the physical buffer coordinates.
// Inputs must be in [0, Size).
func (o Orientation) Place(row, col int) (int, int) {
	switch o.Normalize() {
	case Rotate90:
		return Size - 1 - col, row
	case Rotate180:
		return Size - 1 - row, Size - 1 - col
	case Rotate270:
		return col, Size - 1 - row
	default:
		return row, col
	}
}

func (o Orientation) String() string {
	switch o.Normalize() {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// view is a draw.Image over a buffer addressed in logical coordinates
// (x is the column, y the row); every write goes through the orientation.
type view struct {
	buf *Buffer
	o   Orientation
}

func (v view) ColorModel() color.Model {
	return pixel.CRGB16Model
}

func (v view) Bounds() image.Rectangle {
	return image.Rect(0, 0, Size, Size)
}

func (v view) At(x, y int) color.Color {
	row, col := v.o.Place(wrap(y), wrap(x))
	return v.buf.Point(row, col)
}

func (v view) Set(x, y int, c color.Color) {
	row, col := v.o.Place(wrap(y), wrap(x))
	v.buf.SetPoint(row, col, pixel.CRGB16Model.Convert(c).(pixel.CRGB16))
}

// blit writes a logical pattern into the buffer under orientation o.
func blit(buf *Buffer, p *Pattern, o Orientation) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			prow, pcol := o.Place(row, col)
			buf.SetPoint(prow, pcol, p[row][col])
		}
	}
}
