package types

import (
	"image"
	"image/color"
	"image/draw"

	"go.skia.org/visualdiff/go/skerr"
)

// RGB is an opaque 8-bit sRGB color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA is a non-premultiplied 8-bit sRGB color.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Image is a decoded raster image. Pix holds non-premultiplied RGBA bytes in
// row-major order, 4 bytes per pixel, with no padding between rows.
//
// Images are treated as immutable once constructed; nothing in vdiff writes
// to the Pix of an Image it did not allocate.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage returns a fully transparent image of the given size.
func NewImage(width, height int) Image {
	return Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 4*width*height),
	}
}

// FromImage copies any image.Image into an Image, converting to
// non-premultiplied RGBA.
func FromImage(src image.Image) Image {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}
	pix := make([]uint8, len(nrgba.Pix))
	copy(pix, nrgba.Pix)
	return Image{Width: b.Dx(), Height: b.Dy(), Pix: pix}
}

// ToNRGBA returns a copy of the image as an *image.NRGBA.
func (i Image) ToNRGBA() *image.NRGBA {
	ret := image.NewNRGBA(image.Rect(0, 0, i.Width, i.Height))
	copy(ret.Pix, i.Pix)
	return ret
}

// Validate checks that the dimensions and the pixel buffer agree.
func (i Image) Validate() error {
	if i.Width < 0 || i.Height < 0 {
		return skerr.Wrapf(ErrInvalidColor, "negative image dimensions %dx%d", i.Width, i.Height)
	}
	if len(i.Pix) != 4*i.Width*i.Height {
		return skerr.Wrapf(ErrInvalidColor, "pixel buffer holds %d bytes, want %d for a %dx%d RGBA image", len(i.Pix), 4*i.Width*i.Height, i.Width, i.Height)
	}
	return nil
}

// Offset returns the index into Pix of the first byte of pixel (x, y).
func (i Image) Offset(x, y int) int {
	return 4 * (y*i.Width + x)
}

// At returns the color of pixel (x, y). The coordinates must be in bounds.
func (i Image) At(x, y int) RGBA {
	o := i.Offset(x, y)
	p := i.Pix[o : o+4 : o+4]
	return RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes the color of pixel (x, y). Only for images the caller owns.
func (i Image) Set(x, y int, c RGBA) {
	o := i.Offset(x, y)
	i.Pix[o+0] = c.R
	i.Pix[o+1] = c.G
	i.Pix[o+2] = c.B
	i.Pix[o+3] = c.A
}

// NRGBA converts the color to the standard library representation.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
