package pixel

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Models for the standard color types.
var (
	MonoModel   color.Model = color.ModelFunc(monoModel)
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
)

var (
	Off = Mono{false}
	On  = Mono{true}
)

// Named RGB565 colors.
var (
	Black   = CRGB16{0x0000}
	White   = CRGB16{0xFFFF}
	Red     = CRGB16{0xF800}
	Green   = CRGB16{0x07E0}
	Blue    = CRGB16{0x001F}
	Orange  = CRGB16{0xFC00}
	Cyan    = CRGB16{0x87FF}
	Magenta = CRGB16{0xF81F}
	Yellow  = CRGB16{0xFFE0}
)

// ErrHex is returned by ParseHex for malformed color strings.
var ErrHex = errors.New("pixel: invalid hex color")

// Mono represents a 1-bit monochrome color.
type Mono struct {
	On bool
}

func (c Mono) RGBA() (r, g, b, a uint32) {
	if c.On {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return 0, 0, 0, 0xffff
}

func monoModel(c color.Color) color.Color {
	if _, ok := c.(Mono); ok {
		return c
	}
	r, g, b, _ := c.RGBA()

	// These coefficients (the fractions 0.299, 0.587 and 0.114) are the same
	// as those given by the JFIF specification and used by func RGBToYCbCr in
	// ycbcr.go.
	//
	// Note that 19595 + 38470 + 7471 equals 65536.
	//
	// The 31 is 16 + 15. The 16 is the same as used in RGBToYCbCr. The 15 is
	// because the return value is 1 bit color, not 16 bit color.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 31

	return Mono{On: y != 0}
}

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

// RGB565 packs 8-bit components, dropping the low bits of each.
func RGB565(red, green, blue uint8) CRGB16 {
	red &= 0xF8
	green &= 0xFC
	blue &= 0xF8
	return CRGB16{uint16(red)<<8 | uint16(green)<<3 | uint16(blue)>>3}
}

// ParseHex parses "#rrggbb" or "rrggbb" into an RGB565 color.
func ParseHex(s string) (CRGB16, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return CRGB16{}, fmt.Errorf("%w: %q", ErrHex, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return CRGB16{}, fmt.Errorf("%w: %q", ErrHex, s)
	}
	return RGB565(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Components returns the 8-bit red, green and blue values.
func (c CRGB16) Components() (red, green, blue uint8) {
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

// Hex formats the color as "#rrggbb".
func (c CRGB16) Hex() string {
	r, g, b := c.Components()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case Mono:
		if c.On {
			return White
		}
		return Black
	case CRGB16:
		return c
	default:
		r, g, b, _ := c.RGBA()
		r = (r & 0xF800)
		g = (g & 0xFC00) >> 5
		b = (b & 0xF800) >> 11
		return CRGB16{uint16(r | g | b)}
	}
}
