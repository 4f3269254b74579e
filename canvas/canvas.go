/*
Package canvas letterboxes frames onto a fixed size background.

The source is scaled uniformly so that it fits entirely within the target,
then pasted centered on an opaque black background. Nothing is ever cropped;
the unused area on either side is left black. Alpha is dropped when pasting,
fully transparent pixels end up black.
*/
package canvas

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// ErrEmpty is returned when either the source or the target has no pixels.
var ErrEmpty = errors.New("canvas: zero sized image")

const filter = resize.Lanczos3

// ScaledSize returns the size src is scaled to and its offset within a w by h
// target.
func ScaledSize(src image.Point, w, h int) (image.Point, image.Point) {
	var scale float64
	if src.X > src.Y {
		scale = float64(w) / float64(src.X)
	} else {
		scale = float64(h) / float64(src.Y)
	}

	// Non-square targets can still overflow the other axis
	scale = math.Min(scale, math.Min(float64(w)/float64(src.X), float64(h)/float64(src.Y)))

	size := image.Pt(dimension(src.X, scale, w), dimension(src.Y, scale, h))
	origin := image.Pt((w-size.X)/2, (h-size.Y)/2)
	return size, origin
}

func dimension(n int, scale float64, max int) int {
	d := int(math.Round(float64(n) * scale))
	switch {
	case d < 1:
		return 1
	case d > max:
		return max
	}
	return d
}

// PadResize returns src scaled and centered on a new w by h image.
func PadResize(src image.Image, w, h int) (*image.RGBA, error) {
	b := src.Bounds()
	if b.Empty() || w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}

	size, origin := ScaledSize(b.Size(), w, h)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	var scaled image.Image = src
	if size != b.Size() {
		scaled = resize.Resize(uint(size.X), uint(size.Y), src, filter)
	}

	// Pasting onto the background keeps the straight color channels and
	// discards alpha, so semi-transparent edges are not darkened
	straight := image.NewNRGBA(image.Rectangle{Max: size})
	draw.Draw(straight, straight.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			c := straight.NRGBAAt(x, y)
			dst.SetRGBA(origin.X+x, origin.Y+y, color.RGBA{c.R, c.G, c.B, 0xff})
		}
	}

	return dst, nil
}
