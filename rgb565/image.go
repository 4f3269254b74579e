package rgb565

import (
	"image"
	"image/color"
)

// Image is an in-memory image of packed Color values, stored row-major.
type Image struct {
	Pix    []uint16
	Stride int
	Rect   image.Rectangle
}

// New returns a new Image with the given bounds.
func New(r image.Rectangle) *Image {
	return &Image{
		Pix:    make([]uint16, r.Dx()*r.Dy()),
		Stride: r.Dx(),
		Rect:   r,
	}
}

func (p *Image) ColorModel() color.Model { return Model }

func (p *Image) Bounds() image.Rectangle { return p.Rect }

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

func (p *Image) At(x, y int) color.Color {
	return p.Color565At(x, y)
}

// Color565At returns the packed color at (x, y).
func (p *Image) Color565At(x, y int) Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	return Color(p.Pix[p.PixOffset(x, y)])
}

func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint16(Model.Convert(c).(Color))
}

// Convert quantizes m into a new Image with its top-left corner at (0, 0).
func Convert(m image.Image) *Image {
	b := m.Bounds()
	dst := New(image.Rect(0, 0, b.Dx(), b.Dy()))

	// Fast path, reading the raw channels and ignoring alpha
	if rgba, ok := m.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			i := rgba.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < b.Dx(); x++ {
				s := rgba.Pix[i+x*4 : i+x*4+3 : i+x*4+3]
				dst.Pix[y*dst.Stride+x] = uint16(Pack(s[0], s[1], s[2]))
			}
		}
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, m.At(x, y))
		}
	}
	return dst
}
