// Package drawer shows matrix frames on any periph.io display.Drawer.
//
// Drawers with at least 8x8 pixels receive the frame as is. LED strips
// (Nx1 drawers with N >= 64, such as a WS2812 chain driven by nrzled) receive
// the 64 pixels flattened row by row; serpentine wiring reverses every odd
// row.
package drawer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/BeatGlow/matrix"
)

// ErrGeometry is returned for drawers that can not hold an 8x8 frame.
var ErrGeometry = errors.New("drawer: unsupported geometry")

// Options for the sink.
type Options struct {
	// Serpentine reverses every odd row on strips.
	Serpentine bool

	// Halt the drawer on Close.
	Halt bool
}

// DefaultOptions halts the drawer on close.
var DefaultOptions = Options{Halt: true}

// Sink is a matrix.Sink on a periph drawer.
type Sink struct {
	d      display.Drawer
	opts   Options
	strip  *image.NRGBA
	closed bool
}

var _ matrix.Sink = (*Sink)(nil)

// New wraps d. A nil opts uses DefaultOptions.
func New(d display.Drawer, opts *Options) (*Sink, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	s := &Sink{d: d, opts: *opts}

	b := d.Bounds()
	switch {
	case b.Dx() >= matrix.Size && b.Dy() >= matrix.Size:
	case b.Dy() == 1 && b.Dx() >= matrix.Size*matrix.Size:
		s.strip = image.NewNRGBA(image.Rect(0, 0, matrix.Size*matrix.Size, 1))
	default:
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrGeometry, d, b.Dx(), b.Dy())
	}
	return s, nil
}

func (s *Sink) String() string {
	return s.d.String()
}

// Draw sends the frame to the drawer.
func (s *Sink) Draw(frame image.Image) error {
	if s.closed {
		return matrix.ErrSinkUnavailable
	}
	if s.strip == nil {
		b := s.d.Bounds()
		r := image.Rectangle{Min: b.Min, Max: b.Min.Add(image.Pt(matrix.Size, matrix.Size))}
		return s.d.Draw(r, frame, frame.Bounds().Min)
	}

	s.flatten(frame)
	return s.d.Draw(s.d.Bounds(), s.strip, image.Point{})
}

func (s *Sink) flatten(frame image.Image) {
	origin := frame.Bounds().Min
	for row := 0; row < matrix.Size; row++ {
		for col := 0; col < matrix.Size; col++ {
			c := color.NRGBAModel.Convert(frame.At(origin.X+col, origin.Y+row)).(color.NRGBA)
			s.strip.SetNRGBA(StripIndex(row, col, s.opts.Serpentine), 0, c)
		}
	}
}

// StripIndex is the position of (row, col) on a strip.
func StripIndex(row, col int, serpentine bool) int {
	if serpentine && row%2 == 1 {
		return row*matrix.Size + matrix.Size - 1 - col
	}
	return row*matrix.Size + col
}

// Close halts the drawer if configured to.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.opts.Halt {
		return s.d.Halt()
	}
	return nil
}
