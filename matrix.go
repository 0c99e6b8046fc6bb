// Package matrix renders text, patterns and bar gauges on an 8x8 RGB565 LED
// matrix such as the Raspberry Pi Sense HAT.
//
// A [Display] owns the pixel [Buffer] together with the session state (color,
// orientation, font) and pushes complete frames to a [Sink]: a framebuffer
// device, a periph.io display driver or a software emulator.
package matrix

import (
	"errors"
	"image"
	"time"

	"github.com/BeatGlow/matrix/glyph"
	"github.com/BeatGlow/matrix/pixel"
)

// Size is the width and height of the matrix in pixels.
const Size = 8

// Errors
var (
	ErrSinkUnavailable = errors.New("matrix: sink unavailable")
	ErrOrientation     = errors.New("matrix: unsupported orientation")
)

// Sink is the physical display receiving full frames.
type Sink interface {
	String() string

	// Draw shows frame. The frame is only valid for the duration of the call.
	Draw(frame image.Image) error

	// Close releases the device.
	Close() error
}

// Reading is one sample of the environment sensors.
type Reading struct {
	Time        time.Time
	Temperature float64 // °C
	Humidity    float64 // %RH
	Pressure    float64 // hPa
}

// Setpoint holds the control targets.
type Setpoint struct {
	Temperature float64
	Humidity    float64
}

// Config is the display session configuration.
type Config struct {
	// Orientation applied to every pattern and gauge write.
	Orientation Orientation

	// Color is the text color used by Flush.
	Color pixel.CRGB16

	// Background is the text background color.
	Background pixel.CRGB16

	// ScrollDelay is the default delay between scroll frames.
	ScrollDelay time.Duration

	// Glyphs is the font, nil for the built-in font.
	Glyphs *glyph.Table

	// Gauges are the bar gauge colors.
	Gauges GaugeStyle

	// Dashboard places and scales the dashboard gauges.
	Dashboard Dashboard
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Orientation: Rotate0,
	Color:       pixel.Blue,
	Background:  pixel.Black,
	ScrollDelay: 100 * time.Millisecond,
	Gauges:      DefaultGaugeStyle,
	Dashboard:   DefaultDashboard,
}
