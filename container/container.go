/*
Package container implements the animation container read by the display
firmware.

The file starts with a fixed 20 byte header, all fields little-endian:

	offset  size  field
	0       4     signature, e.g. "ANIM"
	4       2     header size, always 20
	6       2     offset of the first frame
	8       4     total file size
	12      2     frame width
	14      2     frame height
	16      2     bytes per pixel, always 2
	18      2     number of frames

This is followed by one little-endian 16-bit duration in milliseconds per
frame, and then the pixels of every frame in turn. Each frame is stored
row-major as RGB565 values, however unlike the rest of the file each pixel is
written big-endian. There is no checksum or compression.
*/
package container

import (
	"errors"
	"fmt"
	"math"

	"github.com/bodgit/gif2anim/profile"
)

const (
	// HeaderSize is the encoded size of Header in bytes.
	HeaderSize = 20
	// BytesPerPixel is the size of a single RGB565 pixel.
	BytesPerPixel = 2
	durationSize  = 2
)

var (
	// ErrNoFrames is returned when encoding an empty animation.
	ErrNoFrames = errors.New("container: no frames")
	// ErrFrameSize is returned when a frame has the wrong number of pixels.
	ErrFrameSize = errors.New("container: frame is wrong size")
	// ErrTooLarge is returned when a header field would overflow.
	ErrTooLarge = errors.New("container: too many frames for the header fields")
	// ErrBadHeader is returned when a decoded header is inconsistent.
	ErrBadHeader = errors.New("container: invalid header")
	// ErrShortHeader is returned when the input ends inside the header.
	ErrShortHeader = errors.New("container: not enough header data")
)

// Header is the fixed-size record at the start of every container.
type Header struct {
	Signature       [4]byte
	HeaderSize      uint16
	FrameDataOffset uint16
	FileSize        uint32
	Width           uint16
	Height          uint16
	BytesPerPixel   uint16
	FrameCount      uint16
}

// NewHeader computes the header for n frames of profile p.
func NewHeader(p profile.Profile, n int) (Header, error) {
	if n <= 0 {
		return Header{}, ErrNoFrames
	}
	if p.Width <= 0 || p.Height <= 0 || p.Width > math.MaxUint16 || p.Height > math.MaxUint16 {
		return Header{}, fmt.Errorf("container: invalid frame size %dx%d", p.Width, p.Height)
	}

	offset := HeaderSize + durationSize*n
	size := uint64(offset) + uint64(n)*uint64(p.Pixels())*BytesPerPixel

	if n > math.MaxUint16 || offset > math.MaxUint16 || size > math.MaxUint32 {
		return Header{}, ErrTooLarge
	}

	return Header{
		Signature:       p.Signature,
		HeaderSize:      HeaderSize,
		FrameDataOffset: uint16(offset),
		FileSize:        uint32(size),
		Width:           uint16(p.Width),
		Height:          uint16(p.Height),
		BytesPerPixel:   BytesPerPixel,
		FrameCount:      uint16(n),
	}, nil
}

// Frame is a single quantized frame.
type Frame struct {
	Pix      []uint16
	Duration uint16
}
