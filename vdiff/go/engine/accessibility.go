package engine

import (
	"math"

	"go.skia.org/visualdiff/vdiff/go/cluster"
	"go.skia.org/visualdiff/vdiff/go/colormodel"
	"go.skia.org/visualdiff/vdiff/go/cvd"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
	"go.skia.org/visualdiff/vdiff/go/wcag"
)

// unsampled stands in for colors that cannot be sampled. It is white, the
// backdrop translucent pixels are composited over.
var unsampled = types.RGB{R: 255, G: 255, B: 255}

// colorSum averages colors composited over white.
type colorSum struct {
	r, g, b float64
	n       int
}

func (s *colorSum) add(c types.RGBA) {
	f := colormodel.Flatten(c)
	s.r += float64(f.R)
	s.g += float64(f.G)
	s.b += float64(f.B)
	s.n++
}

func (s *colorSum) mean() types.RGB {
	if s.n == 0 {
		return unsampled
	}
	n := float64(s.n)
	return types.RGB{
		R: uint8(math.Round(s.r / n)),
		G: uint8(math.Round(s.g / n)),
		B: uint8(math.Round(s.b / n)),
	}
}

// memberColor is the mean color of the members of c that img has.
func memberColor(img types.Image, width int, c *cluster.Component) types.RGB {
	var s colorSum
	for _, idx := range c.Members {
		x, y := idx%width, idx/width
		if y < img.Height {
			s.add(img.At(x, y))
		}
	}
	return s.mean()
}

// ringColor is the mean color of the one pixel ring around box, clipped to
// img.
func ringColor(img types.Image, box types.BoundingBox) types.RGB {
	var s colorSum
	x0, y0, x1, y1 := box.X-1, box.Y-1, box.Right(), box.Bottom()
	sample := func(x, y int) {
		if x >= 0 && y >= 0 && x < img.Width && y < img.Height {
			s.add(img.At(x, y))
		}
	}
	for x := x0; x <= x1; x++ {
		sample(x, y0)
		sample(x, y1)
	}
	for y := y0 + 1; y < y1; y++ {
		sample(x0, y)
		sample(x1, y)
	}
	return s.mean()
}

// accessibility describes how the change in c reads to users: the color
// shift, its contrast against the surroundings and, if requested, how much
// of the shift survives each dichromacy.
func accessibility(img1, img2 types.Image, width int, c *cluster.Component, opts options.CompareOptions) *types.AccessibilityMetadata {
	before := memberColor(img1, width, c)
	after := memberColor(img2, width, c)
	ret := &types.AccessibilityMetadata{
		BaselineColor:    before,
		CurrentColor:     after,
		ColorDeltaE:      colormodel.DeltaERGB(before, after),
		BaselineContrast: colormodel.Contrast(before, ringColor(img1, c.Box)),
		CurrentContrast:  colormodel.Contrast(after, ringColor(img2, c.Box)),
	}
	ret.IntroducedContrastFailure = ret.BaselineContrast >= wcag.AANormal && ret.CurrentContrast < wcag.AANormal
	if !opts.CheckColorBlindness {
		return ret
	}
	ret.ColorBlindness = make([]types.CvdVisibility, 0, len(types.DichromatTypes))
	for _, t := range types.DichromatTypes {
		v := types.CvdVisibility{
			Type:   t,
			DeltaE: colormodel.DeltaERGB(cvd.Simulate(before, t), cvd.Simulate(after, t)),
		}
		if ret.ColorDeltaE > 0 {
			v.VisibilityLoss = math.Max(0, math.Min(100, (1-v.DeltaE/ret.ColorDeltaE)*100))
		}
		v.Reduced = v.VisibilityLoss >= opts.ColorBlindnessThreshold
		ret.ColorBlindness = append(ret.ColorBlindness, v)
	}
	return ret
}
