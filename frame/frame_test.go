package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	green = color.RGBA{0, 255, 0, 255}

	testPalette = color.Palette{red, blue, green, color.RGBA{}}
)

const (
	idxRed = iota
	idxBlue
	idxGreen
	idxTransparent
)

func paletted(r image.Rectangle, index uint8) *image.Paletted {
	m := image.NewPaletted(r, testPalette)
	for i := range m.Pix {
		m.Pix[i] = index
	}
	return m
}

func encodeGIF(t *testing.T, w, h int, frames []*image.Paletted, delays []int) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, gif.EncodeAll(b, &gif.GIF{
		Image: frames,
		Delay: delays,
		Config: image.Config{
			ColorModel: testPalette,
			Width:      w,
			Height:     h,
		},
	}))
	return b.Bytes()
}

func opener(t *testing.T, b []byte) Opener {
	return GIFOpener(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	})
}

type sliceDecoder struct {
	size   image.Point
	frames []*Frame
	err    error
}

func (d *sliceDecoder) Size() image.Point { return d.size }

func (d *sliceDecoder) Next() (*Frame, error) {
	if len(d.frames) == 0 {
		if d.err != nil {
			return nil, d.err
		}
		return nil, io.EOF
	}
	f := d.frames[0]
	d.frames = d.frames[1:]
	return f, nil
}

func TestScan(t *testing.T) {
	tables := []struct {
		name        string
		frames      []*image.Paletted
		delays      []int
		disposition Disposition
		durations   []uint16
	}{
		{
			name:        "single",
			frames:      []*image.Paletted{paletted(image.Rect(0, 0, 4, 4), idxRed)},
			delays:      []int{7},
			disposition: FullReplace,
			durations:   []uint16{70},
		},
		{
			name: "full frames",
			frames: []*image.Paletted{
				paletted(image.Rect(0, 0, 4, 4), idxRed),
				paletted(image.Rect(0, 0, 4, 4), idxBlue),
			},
			delays:      []int{50, 10},
			disposition: FullReplace,
			durations:   []uint16{500, 100},
		},
		{
			name: "patch",
			frames: []*image.Paletted{
				paletted(image.Rect(0, 0, 4, 4), idxRed),
				paletted(image.Rect(1, 1, 3, 3), idxBlue),
				paletted(image.Rect(0, 0, 4, 4), idxGreen),
			},
			delays:      []int{50, 10, 3},
			disposition: Incremental,
			durations:   []uint16{500, 100, 30},
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			d, err := opener(t, encodeGIF(t, 4, 4, table.frames, table.delays))()
			require.NoError(t, err)

			meta, err := Scan(d)
			require.NoError(t, err)
			assert.Equal(t, image.Pt(4, 4), meta.Size)
			assert.Equal(t, table.disposition, meta.Disposition)
			assert.Equal(t, table.durations, meta.Durations)
			assert.Equal(t, len(table.frames), meta.FrameCount())
		})
	}
}

func TestScanErrors(t *testing.T) {
	_, err := Scan(&sliceDecoder{size: image.Pt(1, 1)})
	assert.Equal(t, ErrNoFrames, err)

	boom := errors.New("boom")
	_, err = Scan(&sliceDecoder{size: image.Pt(1, 1), err: boom})
	assert.Equal(t, boom, err)
}

func TestGIFDecoderDuration(t *testing.T) {
	d, err := opener(t, encodeGIF(t, 1, 1, []*image.Paletted{paletted(image.Rect(0, 0, 1, 1), idxRed)}, []int{6554}))()
	require.NoError(t, err)
	_, err = d.Next()
	assert.Equal(t, ErrDuration, err)
}

func TestGIFDecoderInvalid(t *testing.T) {
	_, err := NewGIFDecoder(bytes.NewReader([]byte("not a gif")))
	assert.Error(t, err)
}

func collect(t *testing.T, open Opener) (Meta, []*Composed) {
	t.Helper()

	d, err := open()
	require.NoError(t, err)
	meta, err := Scan(d)
	require.NoError(t, err)

	d, err = open()
	require.NoError(t, err)

	var out []*Composed
	require.NoError(t, NewReconstructor(d, meta).All(func(i int, c *Composed) error {
		assert.Equal(t, len(out), i)
		out = append(out, c)
		return nil
	}))
	return meta, out
}

func TestReconstructIncremental(t *testing.T) {
	b := encodeGIF(t, 4, 4, []*image.Paletted{
		paletted(image.Rect(0, 0, 4, 4), idxRed),
		paletted(image.Rect(1, 1, 3, 3), idxBlue),
	}, []int{50, 10})

	meta, frames := collect(t, opener(t, b))
	require.Len(t, frames, 2)
	assert.Equal(t, Incremental, meta.Disposition)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, red, frames[0].Image.RGBAAt(x, y))
			want := red
			if image.Pt(x, y).In(image.Rect(1, 1, 3, 3)) {
				want = blue
			}
			assert.Equal(t, want, frames[1].Image.RGBAAt(x, y), "(%d, %d)", x, y)
		}
	}

	assert.Equal(t, uint16(500), frames[0].Duration)
	assert.Equal(t, uint16(100), frames[1].Duration)
}

func TestReconstructTransparentKeepsPrevious(t *testing.T) {
	patch := paletted(image.Rect(0, 0, 4, 4), idxTransparent)
	patch.SetColorIndex(0, 0, idxGreen)

	b := encodeGIF(t, 4, 4, []*image.Paletted{
		paletted(image.Rect(0, 0, 4, 4), idxRed),
		paletted(image.Rect(2, 2, 3, 3), idxBlue),
		patch,
	}, []int{1, 1, 1})

	_, frames := collect(t, opener(t, b))
	require.Len(t, frames, 3)

	assert.Equal(t, green, frames[2].Image.RGBAAt(0, 0))
	assert.Equal(t, blue, frames[2].Image.RGBAAt(2, 2))
	assert.Equal(t, red, frames[2].Image.RGBAAt(3, 3))
}

func TestReconstructFullReplace(t *testing.T) {
	patch := paletted(image.Rect(0, 0, 2, 2), idxTransparent)
	patch.SetColorIndex(0, 0, idxBlue)

	d := &sliceDecoder{
		size: image.Pt(2, 2),
		frames: []*Frame{
			{Image: paletted(image.Rect(0, 0, 2, 2), idxRed), Duration: 1},
			{Image: patch, Duration: 2},
		},
	}
	meta := Meta{Size: image.Pt(2, 2), Disposition: FullReplace, Durations: []uint16{1, 2}}

	r := NewReconstructor(d, meta)
	_, err := r.Next()
	require.NoError(t, err)
	c, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, blue, c.Image.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, c.Image.RGBAAt(1, 1))
	assert.Equal(t, uint16(2), c.Duration)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReconstructSingleFrame(t *testing.T) {
	b := encodeGIF(t, 3, 2, []*image.Paletted{paletted(image.Rect(0, 0, 3, 2), idxGreen)}, []int{20})

	meta, frames := collect(t, opener(t, b))
	assert.Equal(t, FullReplace, meta.Disposition)
	require.Len(t, frames, 1)
	assert.Equal(t, image.Rect(0, 0, 3, 2), frames[0].Image.Bounds())
	assert.Equal(t, green, frames[0].Image.RGBAAt(2, 1))
}

func TestReconstructDoesNotShareComposite(t *testing.T) {
	d := &sliceDecoder{
		size: image.Pt(2, 1),
		frames: []*Frame{
			{Image: paletted(image.Rect(0, 0, 2, 1), idxRed)},
			{Image: paletted(image.Rect(1, 0, 2, 1), idxBlue)},
		},
	}
	meta := Meta{Size: image.Pt(2, 1), Disposition: Incremental, Durations: []uint16{0, 0}}

	r := NewReconstructor(d, meta)
	first, err := r.Next()
	require.NoError(t, err)

	// Scribbling on a returned frame must not leak into the next one
	first.Image.SetRGBA(0, 0, green)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, red, second.Image.RGBAAt(0, 0))
	assert.Equal(t, blue, second.Image.RGBAAt(1, 0))
}

func TestReconstructMismatch(t *testing.T) {
	d := &sliceDecoder{
		size: image.Pt(1, 1),
		frames: []*Frame{
			{Image: paletted(image.Rect(0, 0, 1, 1), idxRed)},
			{Image: paletted(image.Rect(0, 0, 1, 1), idxRed)},
		},
	}
	r := NewReconstructor(d, Meta{Size: image.Pt(1, 1), Durations: []uint16{0}})
	assert.Equal(t, ErrMismatch, r.All(func(int, *Composed) error { return nil }))
}

func TestDispositionString(t *testing.T) {
	assert.Equal(t, "full", FullReplace.String())
	assert.Equal(t, "partial", Incremental.String())
	assert.Equal(t, "unknown", Disposition(7).String())
}

func TestGIFDecoderMissingTrailer(t *testing.T) {
	b := encodeGIF(t, 4, 4, []*image.Paletted{
		paletted(image.Rect(0, 0, 4, 4), idxRed),
		paletted(image.Rect(1, 1, 3, 3), idxBlue),
	}, []int{50, 10})
	require.Equal(t, byte(0x3b), b[len(b)-1])

	full, err := NewGIFDecoder(bytes.NewReader(b))
	require.NoError(t, err)
	assert.False(t, full.Truncated())

	d, err := NewGIFDecoder(bytes.NewReader(b[:len(b)-1]))
	require.NoError(t, err)
	assert.True(t, d.Truncated())

	meta, err := Scan(d)
	require.NoError(t, err)
	assert.Equal(t, []uint16{500, 100}, meta.Durations)
	assert.Equal(t, Incremental, meta.Disposition)
}

func TestGIFDecoderCutMidFrame(t *testing.T) {
	b := encodeGIF(t, 4, 4, []*image.Paletted{
		paletted(image.Rect(0, 0, 4, 4), idxRed),
		paletted(image.Rect(0, 0, 4, 4), idxBlue),
	}, []int{50, 10})

	// Lose the trailer, the block terminator and the last byte of pixel data
	_, frames := collect(t, opener(t, b[:len(b)-3]))
	require.Len(t, frames, 1)
	assert.Equal(t, red, frames[0].Image.RGBAAt(3, 3))
	assert.Equal(t, uint16(500), frames[0].Duration)
}

func TestGIFDecoderCutBeforeFirstFrame(t *testing.T) {
	b := encodeGIF(t, 4, 4, []*image.Paletted{paletted(image.Rect(0, 0, 4, 4), idxRed)}, []int{1})

	for _, n := range []int{4, 13, 20} {
		_, err := NewGIFDecoder(bytes.NewReader(b[:n]))
		assert.Error(t, err, "cut at %d", n)
	}
}
