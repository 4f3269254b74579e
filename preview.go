package gif2anim

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/bodgit/gif2anim/frame"
	"github.com/bodgit/gif2anim/profile"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const previewColors = 256

// Preview writes an animated GIF to w showing each frame as it would appear
// on the display for profile p, after letterboxing and RGB565 truncation.
func (c *Converter) Preview(open frame.Opener, w io.Writer, p profile.Profile) error {
	meta, images, err := c.render(open, p)
	if err != nil {
		return err
	}

	q := quantize.MedianCutQuantizer{}

	g := &gif.GIF{
		Config: image.Config{
			Width:  p.Width,
			Height: p.Height,
		},
	}
	for i, m := range images {
		b := m.Bounds()
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, previewColors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)

		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, int(meta.Durations[i])/10)
	}

	return gif.EncodeAll(w, g)
}

// PreviewFile writes a preview of src for the format named by tag to dst.
func (c *Converter) PreviewFile(src, dst, tag string) error {
	p, err := profile.Lookup(tag)
	if err != nil {
		return err
	}

	b := new(bytes.Buffer)
	if err := c.Preview(fileOpener(src), b, p); err != nil {
		return err
	}

	c.logger.Info("writing preview", "dst", dst, "format", p.Tag, "bytes", b.Len())

	return writeFile(dst, b.Bytes())
}
