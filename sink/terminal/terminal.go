// Package terminal draws matrix frames on a 24-bit color ANSI terminal.
package terminal

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/BeatGlow/matrix"
)

// Pixel is the string printed for one LED.
var Pixel = "● "

// Sink prints every frame, redrawing in place after the first one.
type Sink struct {
	mu     sync.Mutex
	w      io.Writer
	lines  int
	closed bool
}

var _ matrix.Sink = (*Sink)(nil)

// New terminal sink writing to w.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

func (s *Sink) String() string { return "terminal" }

// Draw prints the frame.
func (s *Sink) Draw(frame image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return matrix.ErrSinkUnavailable
	}

	var buf bytes.Buffer
	if s.lines > 0 {
		// Move the cursor back up over the previous frame.
		fmt.Fprintf(&buf, "\x1b[%dA", s.lines)
	}
	b := frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(frame.At(x, y)).(color.RGBA)
			fmt.Fprintf(&buf, "\x1b[38;2;%d;%d;%dm%s", c.R, c.G, c.B, Pixel)
		}
		buf.WriteString("\x1b[0m\n")
	}
	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return err
	}
	s.lines = b.Dy()
	return nil
}

// Close stops drawing.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
