// Package framebuffer drives LED matrices exposed as a Linux framebuffer
// device (fbdev), such as the Raspberry Pi Sense HAT.
//
// The device is found by its fbdev identification string with [Find] or
// opened by name with [Open]. Its pixel memory is mapped and every frame is
// copied straight into it, so there is no separate refresh step.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/draw"
	"github.com/BeatGlow/matrix/pixel"
)

// SenseHAT is the fbdev identification string of the Sense HAT LED matrix.
const SenseHAT = "RPi-Sense FB"

// Errors
var (
	ErrNotFound     = errors.New("framebuffer: device not found")
	ErrColorModel   = errors.New("framebuffer: unsupported color model")
	ErrNotSupported = errors.New("framebuffer: not supported")
)

// Device is an open framebuffer. It implements [matrix.Sink].
type Device struct {
	name   string
	id     string
	img    *pixel.CRGB16Image
	closer func() error
}

var _ matrix.Sink = (*Device)(nil)

// newDevice wraps mapped pixel memory.
func newDevice(name, id string, pix []byte, width, height, stride int, order binary.ByteOrder, closer func() error) *Device {
	return &Device{
		name: name,
		id:   id,
		img: &pixel.CRGB16Image{
			Buffer: pixel.Buffer{
				Rect:   image.Rect(0, 0, width, height),
				Pix:    pix,
				Stride: stride,
			},
			Order: order,
		},
		closer: closer,
	}
}

func (d *Device) String() string {
	return fmt.Sprintf("fbdev %s (%s)", d.name, d.id)
}

// ID is the fbdev identification string.
func (d *Device) ID() string { return d.id }

// Bounds of the framebuffer in pixels.
func (d *Device) Bounds() image.Rectangle {
	if d.img == nil {
		return image.Rectangle{}
	}
	return d.img.Bounds()
}

// ColorModel of the framebuffer.
func (d *Device) ColorModel() color.Model {
	return pixel.CRGB16Model
}

// Draw copies frame into the framebuffer memory, aligned at the top left.
func (d *Device) Draw(frame image.Image) error {
	if d.img == nil {
		return matrix.ErrSinkUnavailable
	}
	draw.Draw(d.img, d.img.Bounds(), frame, frame.Bounds().Min, draw.Src)
	return nil
}

// Close unmaps the pixel memory and closes the device.
func (d *Device) Close() error {
	if d.img == nil {
		return nil
	}
	d.img = nil
	if d.closer != nil {
		return d.closer()
	}
	return nil
}

// fixScreenInfo is struct fb_fix_screeninfo from <linux/fb.h>.
type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// name returns the identification string up to the first NUL.
func (info *fixScreenInfo) name() string {
	for i, b := range info.ID {
		if b == 0 {
			return string(info.ID[:i])
		}
	}
	return string(info.ID[:])
}

// bitField for the color
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// varScreenInfo is struct fb_var_screeninfo from <linux/fb.h>.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

// checkColorModel accepts 16 bits per pixel RGB565 only.
func checkColorModel(info *varScreenInfo) error {
	if info == nil {
		return errors.New("framebuffer: invalid screen info")
	}
	if info.BitsPerPixel == 16 &&
		info.Red.Offset == 11 &&
		info.Red.Length == 5 &&
		info.Green.Offset == 5 &&
		info.Green.Length == 6 &&
		info.Blue.Offset == 0 &&
		info.Blue.Length == 5 &&
		info.Alpha.Length == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d bpp, red %d:%d, green %d:%d, blue %d:%d", ErrColorModel,
		info.BitsPerPixel,
		info.Red.Offset, info.Red.Length,
		info.Green.Offset, info.Green.Length,
		info.Blue.Offset, info.Blue.Length)
}
