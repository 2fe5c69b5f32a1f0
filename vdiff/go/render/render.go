// Package render draws the diff, mask and overlay artifacts of a comparison
// and persists them as PNG files. Source images are never modified; every
// function returns a freshly allocated image.
package render

import (
	"github.com/nfnt/resize"
	"github.com/willf/bitset"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// Layout describes the compared extent a mask is indexed by: bit y*Width+x
// is set for each different pixel.
type Layout struct {
	Width, Height int
	Mask          *bitset.BitSet
}

func (l Layout) different(x, y int) bool {
	return l.Mask.Test(uint(y*l.Width + x))
}

// blendOver composites the highlight c over the opaque-ized pixel p.
func blendOver(c types.RGBA, p types.RGBA) types.RGBA {
	if c.A == 255 {
		return c
	}
	a := uint32(c.A)
	mix := func(hc, pc uint8) uint8 {
		return uint8((uint32(hc)*a + uint32(pc)*(255-a) + 127) / 255)
	}
	return types.RGBA{R: mix(c.R, p.R), G: mix(c.G, p.G), B: mix(c.B, p.B), A: max(c.A, p.A)}
}

// source returns the pixel at (x, y) of the first image that has row y.
func source(img1, img2 types.Image, x, y int) types.RGBA {
	if y < img1.Height {
		return img1.At(x, y)
	}
	if y < img2.Height {
		return img2.At(x, y)
	}
	return types.RGBA{}
}

// Diff returns img1 with every different pixel painted in highlight. Rows
// that only img2 has are taken from img2.
func Diff(img1, img2 types.Image, l Layout, highlight types.RGBA) types.Image {
	ret := types.NewImage(l.Width, l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			p := source(img1, img2, x, y)
			if l.different(x, y) {
				p = blendOver(highlight, p)
			}
			ret.Set(x, y, p)
		}
	}
	return ret
}

// Mask returns an image that is highlight where pixels differ and
// transparent black elsewhere.
func Mask(l Layout, highlight types.RGBA) types.Image {
	ret := types.NewImage(l.Width, l.Height)
	for i, ok := l.Mask.NextSet(0); ok; i, ok = l.Mask.NextSet(i + 1) {
		if int(i) >= l.Width*l.Height {
			break
		}
		ret.Set(int(i)%l.Width, int(i)/l.Width, highlight)
	}
	return ret
}

// Overlay returns img1 and img2 side by side, each with its different
// pixels highlighted. If maxWidth is positive and the composite is wider,
// it is scaled down with Lanczos resampling, keeping the aspect ratio.
func Overlay(img1, img2 types.Image, l Layout, highlight types.RGBA, maxWidth int) types.Image {
	ret := types.NewImage(2*l.Width, l.Height)
	half := func(img types.Image, dx int) {
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				p := img.At(x, y)
				if l.different(x, y) {
					p = blendOver(highlight, p)
				}
				ret.Set(dx+x, y, p)
			}
		}
	}
	half(img1, 0)
	half(img2, l.Width)
	if maxWidth > 0 && ret.Width > maxWidth {
		return Downscale(ret, maxWidth)
	}
	return ret
}

// Downscale shrinks img to the given width with Lanczos3 resampling.
func Downscale(img types.Image, width int) types.Image {
	if width <= 0 || img.Width <= width {
		return img
	}
	scaled := resize.Resize(uint(width), 0, img.ToNRGBA(), resize.Lanczos3)
	return types.FromImage(scaled)
}
