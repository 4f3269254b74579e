package frame

import (
	"bytes"
	"image"
	"image/gif"
	"io"
	"io/ioutil"
	"math"
)

const (
	gifHeaderLen     = 13
	gifImageDescLen  = 10
	gifExtension     = 0x21
	gifImageSep      = 0x2c
	gifTrailer       = 0x3b
	gifColorTableBit = 0x80
)

// GIFDecoder is a Decoder over an animated GIF.
type GIFDecoder struct {
	g         *gif.GIF
	i         int
	truncated bool
}

// NewGIFDecoder decodes every frame of the GIF read from r. A stream that
// ends early is not an error; the animation simply ends after the last
// complete frame.
func NewGIFDecoder(r io.Reader) (*GIFDecoder, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var truncated bool
	g, err := gif.DecodeAll(bytes.NewReader(b))
	if err != nil {
		n, ok := completeFrames(b)
		if !ok || n == 0 {
			return nil, err
		}

		// Cut after the last whole frame and terminate the stream properly
		fixed := append(b[:n:n], gifTrailer)
		if g, err = gif.DecodeAll(bytes.NewReader(fixed)); err != nil {
			return nil, err
		}
		truncated = true
	}

	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}
	return &GIFDecoder{g: g, truncated: truncated}, nil
}

// Truncated reports whether the stream ended before the GIF trailer.
func (d *GIFDecoder) Truncated() bool {
	return d.truncated
}

func colorTableLen(flags byte) int {
	if flags&gifColorTableBit == 0 {
		return 0
	}
	return 3 << (flags&0x07 + 1)
}

// Skip a chain of data sub-blocks starting at i, returning the offset after
// the zero length terminator
func skipSubBlocks(b []byte, i int) (int, bool) {
	for i < len(b) {
		n := int(b[i])
		i++
		if n == 0 {
			return i, true
		}
		i += n
	}
	return 0, false
}

// completeFrames walks the block structure of a GIF and returns the offset
// just past the last complete image. ok is false if b doesn't look like a
// GIF that was cut short.
func completeFrames(b []byte) (end int, ok bool) {
	if len(b) < gifHeaderLen || !bytes.HasPrefix(b, []byte("GIF8")) {
		return 0, false
	}

	i := gifHeaderLen + colorTableLen(b[10])
	for i < len(b) {
		switch b[i] {
		case gifExtension:
			if i+2 > len(b) {
				return end, true
			}
			next, done := skipSubBlocks(b, i+2)
			if !done {
				return end, true
			}
			i = next
		case gifImageSep:
			if i+gifImageDescLen > len(b) {
				return end, true
			}
			// Local color table, then the LZW minimum code size
			next := i + gifImageDescLen + colorTableLen(b[i+9]) + 1
			if next > len(b) {
				return end, true
			}
			next, done := skipSubBlocks(b, next)
			if !done {
				return end, true
			}
			i, end = next, next
		case gifTrailer:
			// Complete stream, so the decode failed for some other reason
			return 0, false
		default:
			return 0, false
		}
	}

	return end, true
}

// Size returns the logical screen size.
func (d *GIFDecoder) Size() image.Point {
	if d.g.Config.Width == 0 || d.g.Config.Height == 0 {
		// Fall back to the union of all frames
		var r image.Rectangle
		for _, m := range d.g.Image {
			r = r.Union(m.Bounds())
		}
		return r.Max
	}
	return image.Pt(d.g.Config.Width, d.g.Config.Height)
}

// Next returns the next frame. GIF delays are in hundredths of a second and
// are converted to milliseconds.
func (d *GIFDecoder) Next() (*Frame, error) {
	if d.i >= len(d.g.Image) {
		return nil, io.EOF
	}

	m := d.g.Image[d.i]
	var delay int
	if d.i < len(d.g.Delay) {
		delay = d.g.Delay[d.i] * 10
	}
	d.i++

	if delay < 0 || delay > math.MaxUint16 {
		return nil, ErrDuration
	}

	return &Frame{
		Image:    m,
		Duration: uint16(delay),
	}, nil
}

// GIFOpener returns an Opener that decodes a new GIF from open on every call.
func GIFOpener(open func() (io.ReadCloser, error)) Opener {
	return func() (Decoder, error) {
		rc, err := open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		return NewGIFDecoder(rc)
	}
}
