package matrix

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"

	"github.com/BeatGlow/matrix/draw"
	"github.com/BeatGlow/matrix/glyph"
	"github.com/BeatGlow/matrix/pixel"
)

// Display is a drawing session on one sink. Every exported drawing method
// updates the buffer and pushes the resulting frame to the sink before it
// returns. A Display is safe for concurrent use.
type Display struct {
	mu          sync.Mutex
	sink        Sink
	buf         *Buffer
	orientation Orientation
	color       pixel.CRGB16
	background  pixel.CRGB16
	delay       time.Duration
	glyphs      *glyph.Table
	gauges      GaugeStyle
	dashboard   Dashboard
	text        strings.Builder
	sleep       func(context.Context, time.Duration) error
}

// New starts a session on sink. A nil config uses DefaultConfig.
func New(sink Sink, config *Config) (*Display, error) {
	if sink == nil {
		return nil, ErrSinkUnavailable
	}
	if config == nil {
		c := DefaultConfig
		config = &c
	}
	o, err := ParseOrientation(int(config.Orientation))
	if err != nil {
		return nil, err
	}

	d := &Display{
		sink:        sink,
		buf:         NewBuffer(),
		orientation: o,
		color:       config.Color,
		background:  config.Background,
		delay:       config.ScrollDelay,
		glyphs:      config.Glyphs,
		gauges:      config.Gauges,
		dashboard:   config.Dashboard,
		sleep:       sleep,
	}
	if d.glyphs == nil {
		d.glyphs = glyph.Default()
	}
	if d.gauges == (GaugeStyle{}) {
		d.gauges = DefaultGaugeStyle
	}
	if d.dashboard == (Dashboard{}) {
		d.dashboard = DefaultDashboard
	}
	if d.delay < 0 {
		d.delay = 0
	}
	log.Debug().Str("sink", sink.String()).Stringer("orientation", o).Msg("matrix: session started")
	return d, nil
}

func (d *Display) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sink == nil {
		return "matrix (closed)"
	}
	return "matrix on " + d.sink.String()
}

// Close the session and its sink. Further drawing fails with ErrSinkUnavailable.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sink == nil {
		return nil
	}
	err := d.sink.Close()
	d.sink = nil
	return err
}

// Buffer returns a copy of the physical buffer.
func (d *Display) Buffer() Pattern {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Pattern()
}

// Refresh pushes the buffer to the sink.
func (d *Display) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refresh()
}

func (d *Display) refresh() error {
	if d.sink == nil {
		return ErrSinkUnavailable
	}
	if err := d.sink.Draw(d.buf); err != nil {
		log.Debug().Err(err).Str("sink", d.sink.String()).Msg("matrix: refresh failed")
		return fmt.Errorf("matrix: draw on %s: %w", d.sink, err)
	}
	return nil
}

// Orientation returns the session orientation.
func (d *Display) Orientation() Orientation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.orientation
}

// SetOrientation changes the orientation used by later writes; the buffer is
// left untouched. Only 0, ±90, ±180 and ±270 are accepted.
func (d *Display) SetOrientation(degrees int) error {
	o, err := ParseOrientation(degrees)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.orientation = o
	d.mu.Unlock()
	log.Debug().Stringer("orientation", o).Msg("matrix: orientation changed")
	return nil
}

// Color returns the text color.
func (d *Display) Color() pixel.CRGB16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.color
}

// SetColor sets the text color used by Flush.
func (d *Display) SetColor(c pixel.CRGB16) {
	d.mu.Lock()
	d.color = c
	d.mu.Unlock()
}

// Clear fills the whole buffer with c.
func (d *Display) Clear(c pixel.CRGB16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clear(c)
	return d.refresh()
}

// WipeScreen clears the buffer to black.
func (d *Display) WipeScreen() error {
	return d.Clear(pixel.Black)
}

func (d *Display) clear(c pixel.CRGB16) {
	draw.Draw(d.buf, d.buf.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// SetPixel sets one pixel in physical coordinates. The orientation does not
// apply; out of range coordinates wrap around.
func (d *Display) SetPixel(row, col int, c pixel.CRGB16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.SetPoint(row, col, c)
	return d.refresh()
}

// Pixel returns one pixel in physical coordinates.
func (d *Display) Pixel(row, col int) pixel.CRGB16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Point(row, col)
}

// ViewPattern shows p under the session orientation.
func (d *Display) ViewPattern(p Pattern) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	blit(d.buf, &p, d.orientation)
	return d.refresh()
}

// RotatePattern rotates the current buffer contents by degrees and shows the
// result through ViewPattern, so the session orientation applies once more.
func (d *Display) RotatePattern(degrees int) error {
	o, err := ParseOrientation(degrees)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	var rotated Pattern
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			prow, pcol := o.Place(row, col)
			rotated[prow][pcol] = d.buf.Point(row, col)
		}
	}
	blit(d.buf, &rotated, d.orientation)
	return d.refresh()
}

// ViewLetter shows the glyph for r in fg on bg.
func (d *Display) ViewLetter(r rune, fg, bg pixel.CRGB16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := Render(d.glyphs, r, fg, bg)
	blit(d.buf, &p, d.orientation)
	return d.refresh()
}

// ViewImage scales img down to the matrix and shows it under the session
// orientation.
func (d *Display) ViewImage(img image.Image) error {
	var p Pattern
	xdraw.ApproxBiLinear.Scale(&p, p.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return d.ViewPattern(p)
}
