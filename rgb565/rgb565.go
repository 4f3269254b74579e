/*
Package rgb565 implements the 16-bit packed color format used by the display
firmware.

Each pixel is stored as RRRRRGGGGGGBBBBB. Conversion from truecolor simply
drops the low bits of each channel; there is no rounding or dithering, and
any alpha channel is discarded.
*/
package rgb565

import (
	"errors"
	"image/color"
)

var errShortRGB = errors.New("rgb565: RGB buffer length is not a multiple of 3")

// Color is a single packed pixel.
type Color uint16

// Pack truncates an 8-bit per channel color to 5-6-5 bits.
func Pack(r, g, b uint8) Color {
	return Color(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// Components returns the 5, 6 and 5-bit channel values.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c >> 11 & 0x1f), uint8(c >> 5 & 0x3f), uint8(c & 0x1f)
}

// RGBA implements color.Color. Channels are widened by bit replication so
// that 0x1f and 0x3f map to full intensity.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5, g6, b5 := c.Components()
	r8 := uint32(r5<<3 | r5>>2)
	g8 := uint32(g6<<2 | g6>>4)
	b8 := uint32(b5<<3 | b5>>2)
	return r8 | r8<<8, g8 | g8<<8, b8 | b8<<8, 0xffff
}

// Model converts any color to a Color.
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Pack(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// FromRGB packs a buffer of consecutive R, G, B bytes, preserving pixel
// order.
func FromRGB(rgb []byte) ([]uint16, error) {
	if len(rgb)%3 != 0 {
		return nil, errShortRGB
	}
	out := make([]uint16, len(rgb)/3)
	for i := range out {
		out[i] = uint16(Pack(rgb[i*3], rgb[i*3+1], rgb[i*3+2]))
	}
	return out, nil
}
