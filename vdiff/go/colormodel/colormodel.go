// Package colormodel has the pure color math shared by every analysis:
// sRGB linearisation, WCAG relative luminance and contrast, CIE Lab and
// CIEDE2000 distances. Colors with alpha are composited over white first.
package colormodel

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/types"
)

const (
	// MinContrast and MaxContrast bound every WCAG contrast ratio.
	MinContrast = 1.0
	MaxContrast = 21.0
)

// linearTable maps an 8-bit sRGB channel to linear light in [0,1].
var linearTable [256]float64

func init() {
	for i := range linearTable {
		linearTable[i] = srgbToLinear(float64(i) / 255)
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// ToLinear returns the linear-light value of an 8-bit sRGB channel.
func ToLinear(c uint8) float64 {
	return linearTable[c]
}

// FromLinear encodes a linear-light value as an 8-bit sRGB channel,
// clamping to [0,1] first.
func FromLinear(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(linearToSRGB(v) * 255))
}

// NewRGBA builds a color from integer channels, failing with
// types.ErrInvalidColor if any channel is outside [0,255].
func NewRGBA(r, g, b, a int) (types.RGBA, error) {
	for _, c := range [4]int{r, g, b, a} {
		if c < 0 || c > 255 {
			return types.RGBA{}, skerr.Wrapf(types.ErrInvalidColor, "channels (%d, %d, %d, %d) must be in [0,255]", r, g, b, a)
		}
	}
	return types.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}

// blend composites c over white and returns sRGB channels in [0,255].
func blend(c types.RGBA) (float64, float64, float64) {
	if c.A == 255 {
		return float64(c.R), float64(c.G), float64(c.B)
	}
	a := float64(c.A) / 255
	return 255 + (float64(c.R)-255)*a,
		255 + (float64(c.G)-255)*a,
		255 + (float64(c.B)-255)*a
}

// Flatten composites c over white.
func Flatten(c types.RGBA) types.RGB {
	r, g, b := blend(c)
	return types.RGB{R: uint8(math.Round(r)), G: uint8(math.Round(g)), B: uint8(math.Round(b))}
}

// Colorful converts c, composited over white, to a go-colorful color.
func Colorful(c types.RGBA) colorful.Color {
	r, g, b := blend(c)
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}
}

// ColorfulRGB converts an opaque color to a go-colorful color.
func ColorfulRGB(c types.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Lab is a CIE L*a*b* color under the D65 white point, L in [0,100].
type Lab struct {
	L, A, B float64
}

// ToLab converts c, composited over white, to CIE Lab.
func ToLab(c types.RGBA) Lab {
	l, a, b := Colorful(c).Lab()
	return Lab{L: l * 100, A: a * 100, B: b * 100}
}

// DeltaE returns the CIEDE2000 distance between two colors on the usual
// scale where 1 is a just noticeable difference and 100 is black vs white.
func DeltaE(c1, c2 types.RGBA) float64 {
	if c1 == c2 {
		return 0
	}
	return Colorful(c1).DistanceCIEDE2000(Colorful(c2)) * 100
}

// DeltaERGB is DeltaE for opaque colors.
func DeltaERGB(c1, c2 types.RGB) float64 {
	if c1 == c2 {
		return 0
	}
	return ColorfulRGB(c1).DistanceCIEDE2000(ColorfulRGB(c2)) * 100
}

// DeltaELab returns the CIEDE2000 distance between two Lab colors.
func DeltaELab(l1, l2 Lab) float64 {
	c1 := colorful.Lab(l1.L/100, l1.A/100, l1.B/100)
	c2 := colorful.Lab(l2.L/100, l2.A/100, l2.B/100)
	return c1.DistanceCIEDE2000(c2) * 100
}

// LinearLuminance is the WCAG relative luminance of linear RGB components.
func LinearLuminance(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// RelativeLuminance is the WCAG relative luminance of an opaque color.
func RelativeLuminance(c types.RGB) float64 {
	return LinearLuminance(linearTable[c.R], linearTable[c.G], linearTable[c.B])
}

// ContrastRatio returns the WCAG contrast ratio of two relative luminances.
// The order of the arguments does not matter.
func ContrastRatio(l1, l2 float64) float64 {
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// Contrast returns the WCAG contrast ratio of two opaque colors.
func Contrast(c1, c2 types.RGB) float64 {
	return ContrastRatio(RelativeLuminance(c1), RelativeLuminance(c2))
}

// Luma returns the gamma-encoded brightness of c composited over white, in
// [0,255], using the YIQ luma weights.
func Luma(c types.RGBA) float64 {
	r, g, b := blend(c)
	return 0.29889531*r + 0.58662247*g + 0.11448223*b
}

// LumaPlane returns the luma of every pixel of img, row-major.
func LumaPlane(img types.Image) []float64 {
	ret := make([]float64, img.Width*img.Height)
	for i := range ret {
		p := img.Pix[4*i : 4*i+4 : 4*i+4]
		ret[i] = Luma(types.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
	}
	return ret
}
