// Package pixel implements the colors and images of the LED matrix: packed
// 5-6-5-bit RGB as used by the Sense HAT framebuffer, and 1-bit monochrome for
// glyph rasterization.
//
// The types are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces.
package pixel
