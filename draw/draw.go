// Package draw composes images onto the matrix buffers and draws the simple
// shapes used by gauges and test patterns.
package draw

import (
	"image"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for [image/draw.Op].
type Op = draw.Op

const (
	// Over composes src over dst.
	Over Op = draw.Over

	// Src replaces dst with src.
	Src Op = draw.Src
)

// Draw replaces r in dst with src aligned at sp.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	draw.Draw(dst, r, src, sp, op)
}
