/*
Package frame rebuilds complete frames from an animation whose frames may
only cover part of the canvas.

A Decoder hands out frames one at a time. Scan makes a first pass to collect
the canvas size, frame durations and the disposition mode, then a
Reconstructor makes a second pass over a freshly opened Decoder and returns
each frame composited at full canvas size.
*/
package frame

import (
	"errors"
	"image"
	"io"
)

var (
	// ErrNoFrames is returned for an animation without any frames.
	ErrNoFrames = errors.New("frame: no frames")
	// ErrDuration is returned when a frame duration does not fit in 16 bits.
	ErrDuration = errors.New("frame: duration out of range")
	// ErrMismatch is returned when the second pass yields more frames than
	// the first.
	ErrMismatch = errors.New("frame: frame count differs between passes")
)

// Frame is a single frame as decoded from the source. The bounds of Image are
// the update region in canvas coordinates.
type Frame struct {
	Image    image.Image
	Duration uint16
}

// Decoder iterates over the frames of an animation. Next returns io.EOF once
// all frames have been returned. A Decoder is consumed exactly once.
type Decoder interface {
	Size() image.Point
	Next() (*Frame, error)
}

// Opener returns a new Decoder positioned at the first frame.
type Opener func() (Decoder, error)

// Disposition is how successive frames are combined.
type Disposition int

const (
	// FullReplace means each frame is drawn onto an empty canvas.
	FullReplace Disposition = iota
	// Incremental means each frame is drawn over the previous composite.
	Incremental
)

func (d Disposition) String() string {
	switch d {
	case FullReplace:
		return "full"
	case Incremental:
		return "partial"
	}
	return "unknown"
}

// Meta describes an animation, collected by Scan.
type Meta struct {
	Size        image.Point
	Disposition Disposition
	Durations   []uint16
}

// FrameCount returns the number of frames.
func (m Meta) FrameCount() int {
	return len(m.Durations)
}

// Scan reads every frame from d. If any frame updates less than the whole
// canvas the entire animation is treated as Incremental.
func Scan(d Decoder) (Meta, error) {
	meta := Meta{
		Size:        d.Size(),
		Disposition: FullReplace,
	}

	for {
		f, err := d.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Meta{}, err
		}

		if f.Image.Bounds().Size() != meta.Size {
			meta.Disposition = Incremental
		}
		meta.Durations = append(meta.Durations, f.Duration)
	}

	if meta.FrameCount() == 0 {
		return Meta{}, ErrNoFrames
	}

	return meta, nil
}
