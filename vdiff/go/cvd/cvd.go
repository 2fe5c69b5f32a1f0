// Package cvd simulates color vision deficiencies. Dichromacies use the
// Brettel, Viénot and Mollon (1997) model in linear RGB, with the two
// half-plane projections and separation plane computed for sRGB primaries
// by libDaltonLens. Achromatopsia is a luminance-preserving grayscale.
package cvd

import (
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/colormodel"
	"go.skia.org/visualdiff/vdiff/go/types"
)

type mat3 [9]float64

func (m *mat3) apply(r, g, b float64) (float64, float64, float64) {
	return m[0]*r + m[1]*g + m[2]*b,
		m[3]*r + m[4]*g + m[5]*b,
		m[6]*r + m[7]*g + m[8]*b
}

// brettel holds the projection for each side of the separation plane.
type brettel struct {
	h1, h2 mat3
	normal [3]float64
}

var brettelParams = map[types.CvdType]*brettel{
	types.Protanopia: {
		h1: mat3{
			0.14980, 1.19548, -0.34528,
			0.10764, 0.84864, 0.04372,
			0.00384, -0.00540, 1.00156,
		},
		h2: mat3{
			0.14570, 1.16172, -0.30742,
			0.10816, 0.85291, 0.03892,
			0.00386, -0.00524, 1.00139,
		},
		normal: [3]float64{0.00048, 0.00393, -0.00441},
	},
	types.Deuteranopia: {
		h1: mat3{
			0.36477, 0.86381, -0.22858,
			0.26294, 0.64245, 0.09462,
			-0.02006, 0.02728, 0.99278,
		},
		h2: mat3{
			0.37298, 0.88166, -0.25464,
			0.25954, 0.63506, 0.10540,
			-0.01980, 0.02784, 0.99196,
		},
		normal: [3]float64{-0.00281, -0.00611, 0.00892},
	},
	types.Tritanopia: {
		h1: mat3{
			1.01277, 0.13548, -0.14826,
			-0.01243, 0.86812, 0.14431,
			0.07589, 0.80500, 0.11911,
		},
		h2: mat3{
			0.93678, 0.18979, -0.12657,
			0.06154, 0.81526, 0.12320,
			-0.37562, 1.12767, 0.24796,
		},
		normal: [3]float64{0.03901, -0.02788, -0.01113},
	},
}

// SimulateLinear applies the simulation to linear RGB components. Results
// are clamped to [0,1].
func SimulateLinear(r, g, b float64, t types.CvdType) (float64, float64, float64) {
	if t == types.Achromatopsia {
		y := colormodel.LinearLuminance(r, g, b)
		return y, y, y
	}
	p := brettelParams[t]
	h := &p.h1
	if r*p.normal[0]+g*p.normal[1]+b*p.normal[2] < 0 {
		h = &p.h2
	}
	sr, sg, sb := h.apply(r, g, b)
	return clamp01(sr), clamp01(sg), clamp01(sb)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Simulate returns how c appears under t.
func Simulate(c types.RGB, t types.CvdType) types.RGB {
	r, g, b := SimulateLinear(colormodel.ToLinear(c.R), colormodel.ToLinear(c.G), colormodel.ToLinear(c.B), t)
	return types.RGB{R: colormodel.FromLinear(r), G: colormodel.FromLinear(g), B: colormodel.FromLinear(b)}
}

// SimulateImage returns a copy of img as seen under t. Alpha is kept.
func SimulateImage(img types.Image, t types.CvdType) types.Image {
	ret := types.NewImage(img.Width, img.Height)
	cache := map[types.RGB]types.RGB{}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		in := types.RGB{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]}
		out, ok := cache[in]
		if !ok {
			out = Simulate(in, t)
			cache[in] = out
		}
		ret.Pix[i], ret.Pix[i+1], ret.Pix[i+2], ret.Pix[i+3] = out.R, out.G, out.B, img.Pix[i+3]
	}
	return ret
}

// SimulateImageByName resolves a type name or alias and simulates it.
func SimulateImageByName(img types.Image, name string) (types.Image, error) {
	t, err := types.ParseCvdType(name)
	if err != nil {
		return types.Image{}, err
	}
	if err := img.Validate(); err != nil {
		return types.Image{}, skerr.Wrapf(err, "simulating %s", t)
	}
	return SimulateImage(img, t), nil
}
