package matrix

import (
	"math"

	"github.com/BeatGlow/matrix/draw"
	"github.com/BeatGlow/matrix/pixel"
)

// GaugeStyle are the colors of a bar gauge.
type GaugeStyle struct {
	Fill   pixel.CRGB16 // bar
	Marker pixel.CRGB16 // setpoint
	Blank  pixel.CRGB16 // above the bar
}

// DefaultGaugeStyle draws green bars with a magenta setpoint marker.
var DefaultGaugeStyle = GaugeStyle{
	Fill:   pixel.Green,
	Marker: pixel.Magenta,
	Blank:  pixel.Black,
}

// Gauge is a bar gauge occupying one logical column.
type Gauge struct {
	Column int
	Lower  float64
	Upper  float64
}

// Row returns the bar height for v, see GaugeRow.
func (g Gauge) Row(v float64) int {
	return GaugeRow(v, g.Lower, g.Upper)
}

// GaugeRow maps v within [lower, upper] onto a row index in [0, 7]:
// floor(8*((v-lower)/(upper-lower)+0.05))-1, clamped. NaN values, empty bands
// and bands without a finite scale map to row 0.
func GaugeRow(v, lower, upper float64) int {
	if math.IsNaN(v) || !(upper > lower) {
		return 0
	}
	span := upper - lower
	frac := (v - lower) / span
	if math.IsInf(span, 0) {
		// Both bounds are finite but too far apart; halve to stay in range.
		frac = (v/2 - lower/2) / (upper/2 - lower/2)
	}
	f := math.Floor(Size*(frac+0.05)) - 1
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > Size-1:
		return Size - 1
	default:
		return int(f)
	}
}

// renderBar fills logical column col from row 0 up to the reading row and
// blanks the rest. The setpoint, if any, is marked last.
func renderBar(v view, style GaugeStyle, col int, reading float64, setpoint *float64, lower, upper float64) {
	row := GaugeRow(reading, lower, upper)
	draw.VerticalLine(v, col, 0, row+1, style.Fill)
	if row < Size-1 {
		draw.VerticalLine(v, col, row+1, Size-1-row, style.Blank)
	}
	if setpoint != nil {
		v.Set(col, GaugeRow(*setpoint, lower, upper), style.Marker)
	}
}
