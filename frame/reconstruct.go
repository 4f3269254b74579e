package frame

import (
	"image"
	"io"

	"golang.org/x/image/draw"
)

// Composed is a frame composited at full canvas size.
type Composed struct {
	Image    *image.RGBA
	Duration uint16
}

// Reconstructor composites decoded frames using the disposition found by
// Scan. It is not safe for concurrent use.
type Reconstructor struct {
	d    Decoder
	meta Meta
	n    int

	// Private copy of the previous composite, never handed out
	last *image.RGBA
}

// NewReconstructor returns a Reconstructor reading frames from d.
func NewReconstructor(d Decoder, meta Meta) *Reconstructor {
	return &Reconstructor{
		d:    d,
		meta: meta,
	}
}

// Next returns the next composited frame, or io.EOF when the animation is
// exhausted.
func (r *Reconstructor) Next() (*Composed, error) {
	f, err := r.d.Next()
	if err != nil {
		return nil, err
	}

	if r.n >= r.meta.FrameCount() {
		return nil, ErrMismatch
	}

	dst := image.NewRGBA(image.Rectangle{Max: r.meta.Size})

	if r.meta.Disposition == Incremental && r.last != nil {
		draw.Draw(dst, dst.Bounds(), r.last, image.Point{}, draw.Src)
	}

	// The frame's own alpha acts as the paste mask
	b := f.Image.Bounds()
	draw.Draw(dst, b, f.Image, b.Min, draw.Over)

	if r.meta.Disposition == Incremental {
		r.last = clone(dst)
	}
	r.n++

	// Durations come from the first pass
	return &Composed{
		Image:    dst,
		Duration: r.meta.Durations[r.n-1],
	}, nil
}

// All drains r, calling fn for every composited frame in order.
func (r *Reconstructor) All(fn func(int, *Composed) error) error {
	for i := 0; ; i++ {
		c, err := r.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := fn(i, c); err != nil {
			return err
		}
	}
}

func clone(m *image.RGBA) *image.RGBA {
	dup := *m
	dup.Pix = append([]uint8(nil), m.Pix...)
	return &dup
}
