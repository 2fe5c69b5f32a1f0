// Package wcag finds low-contrast color boundaries in an image and grades
// them against the WCAG 2 contrast tiers, optionally under simulated color
// vision deficiencies.
package wcag

import (
	"math"

	"github.com/willf/bitset"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/cluster"
	"go.skia.org/visualdiff/vdiff/go/colormodel"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/perceptual"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// WCAG 2 minimum contrast ratios.
const (
	AANormal  = 4.5
	AALarge   = 3.0
	AAANormal = 7.0
	AAALarge  = 4.5
)

// quantShift drops low bits of each channel when looking for the dominant
// colors on either side of an edge.
const quantShift = 4

// Analyze detects edges in img, groups them into regions and grades each
// region's contrast. Regions whose mean contrast exceeds
// opts.MaxContrastThreshold count toward the pass statistics but are never
// reported as violations.
func Analyze(img types.Image, opts options.WcagOptions) (*types.WcagAnalysis, error) {
	if err := img.Validate(); err != nil {
		return nil, skerr.Wrap(err)
	}
	if err := opts.Validate(); err != nil {
		return nil, skerr.Wrap(err)
	}
	w, h := img.Width, img.Height
	ret := &types.WcagAnalysis{Width: w, Height: h, Violations: []types.ContrastViolation{}}

	a := newAnalyzer(img)
	regions := cluster.Label(cluster.Grid{Width: w, Height: h, Mask: a.edges(float64(opts.EdgeThreshold)), ExtraFromRow: h})
	regions = cluster.FilterNoise(regions, opts.MinRegionSize)
	cluster.Sort(regions)

	ret.TotalEdges = len(regions)
	for _, r := range regions {
		v := a.grade(r)
		if !v.FailsAANormal {
			ret.PassesAANormal++
		}
		if !v.FailsAALarge {
			ret.PassesAALarge++
		}
		if !v.FailsAAANormal {
			ret.PassesAAANormal++
		}
		if !v.FailsAAALarge {
			ret.PassesAAALarge++
		}
		if v.ContrastRatio > opts.MaxContrastThreshold {
			continue
		}
		if (opts.CheckAA && (v.FailsAANormal || v.FailsAALarge)) ||
			(opts.CheckAAA && (v.FailsAAANormal || v.FailsAAALarge)) {
			ret.Violations = append(ret.Violations, v)
		}
	}
	ret.AANormalPercentage = percentage(ret.PassesAANormal, ret.TotalEdges)
	ret.AALargePercentage = percentage(ret.PassesAALarge, ret.TotalEdges)
	ret.AAANormalPercentage = percentage(ret.PassesAAANormal, ret.TotalEdges)
	ret.AAALargePercentage = percentage(ret.PassesAAALarge, ret.TotalEdges)
	return ret, nil
}

// percentage returns 100*n/total, and 100 when there is nothing to grade.
func percentage(n, total int) float64 {
	if total == 0 {
		return 100
	}
	return 100 * float64(n) / float64(total)
}

type analyzer struct {
	img  types.Image
	flat []types.RGB
	lum  []float64
	luma []float64
}

func newAnalyzer(img types.Image) *analyzer {
	n := img.Width * img.Height
	a := &analyzer{
		img:  img,
		flat: make([]types.RGB, n),
		lum:  make([]float64, n),
		luma: colormodel.LumaPlane(img),
	}
	for i := 0; i < n; i++ {
		p := img.Pix[4*i : 4*i+4 : 4*i+4]
		a.flat[i] = colormodel.Flatten(types.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]})
		a.lum[i] = colormodel.RelativeLuminance(a.flat[i])
	}
	return a
}

// edges returns the pixels whose luma gradient is at least threshold.
func (a *analyzer) edges(threshold float64) *bitset.BitSet {
	w, h := a.img.Width, a.img.Height
	ret := bitset.New(uint(w * h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if perceptual.GradientMagnitude(a.luma, w, h, x, y) >= threshold {
				ret.Set(uint(y*w + x))
			}
		}
	}
	return ret
}

// extremes returns the indices of the darkest and lightest pixels in the
// 3x3 neighbourhood of idx, including idx itself.
func (a *analyzer) extremes(idx int) (int, int) {
	w, h := a.img.Width, a.img.Height
	x, y := idx%w, idx/w
	dark, light := idx, idx
	for ny := max(0, y-1); ny <= min(h-1, y+1); ny++ {
		for nx := max(0, x-1); nx <= min(w-1, x+1); nx++ {
			n := ny*w + nx
			if a.lum[n] < a.lum[dark] {
				dark = n
			}
			if a.lum[n] > a.lum[light] {
				light = n
			}
		}
	}
	return dark, light
}

// colorTally finds the most common quantized color among samples.
type colorTally struct {
	counts map[types.RGB]int
	sums   map[types.RGB][3]int
}

func newColorTally() *colorTally {
	return &colorTally{counts: map[types.RGB]int{}, sums: map[types.RGB][3]int{}}
}

func (t *colorTally) add(c types.RGB) {
	key := types.RGB{R: c.R >> quantShift, G: c.G >> quantShift, B: c.B >> quantShift}
	t.counts[key]++
	s := t.sums[key]
	t.sums[key] = [3]int{s[0] + int(c.R), s[1] + int(c.G), s[2] + int(c.B)}
}

// dominant returns the mean color of the most common bucket. Ties go to
// the bucket with the smallest packed key so the result is deterministic.
func (t *colorTally) dominant() types.RGB {
	var best types.RGB
	bestCount := -1
	for key, n := range t.counts {
		if n > bestCount || (n == bestCount && packed(key) < packed(best)) {
			best, bestCount = key, n
		}
	}
	s := t.sums[best]
	return types.RGB{
		R: uint8((s[0] + bestCount/2) / bestCount),
		G: uint8((s[1] + bestCount/2) / bestCount),
		B: uint8((s[2] + bestCount/2) / bestCount),
	}
}

func packed(c types.RGB) int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

// grade measures the contrast across every edge pixel of a region.
func (a *analyzer) grade(r *cluster.Component) types.ContrastViolation {
	w := a.img.Width
	darks, lights := newColorTally(), newColorTally()
	minC, maxC, sum := math.Inf(1), math.Inf(-1), 0.0
	pixels := make([]types.Point, 0, r.Count)
	for _, idx := range r.Members {
		pixels = append(pixels, types.Point{X: idx % w, Y: idx / w})
		dark, light := a.extremes(idx)
		c := colormodel.ContrastRatio(a.lum[light], a.lum[dark])
		minC, maxC = math.Min(minC, c), math.Max(maxC, c)
		sum += c
		darks.add(a.flat[dark])
		lights.add(a.flat[light])
	}
	mean := math.Max(minC, math.Min(maxC, sum/float64(r.Count)))

	dark, light := darks.dominant(), lights.dominant()
	fg, bg := dark, light
	if a.darkMajority(r.Box, dark, light) {
		fg, bg = light, dark
	}
	fgL, bgL := colormodel.RelativeLuminance(fg), colormodel.RelativeLuminance(bg)
	return types.ContrastViolation{
		BoundingBox:         r.Box,
		Pixels:              pixels,
		CenterOfMass:        r.CenterOfMass(),
		PixelCount:          r.Count,
		ForegroundColor:     fg,
		BackgroundColor:     bg,
		ForegroundLuminance: fgL,
		BackgroundLuminance: bgL,
		ContrastRatio:       mean,
		MinContrastRatio:    minC,
		MaxContrastRatio:    maxC,
		FailsAANormal:       mean < AANormal,
		FailsAALarge:        mean < AALarge,
		FailsAAANormal:      mean < AAANormal,
		FailsAAALarge:       mean < AAALarge,
	}
}

// darkMajority reports whether more pixels in box are closer in luminance
// to dark than to light, meaning dark is the background.
func (a *analyzer) darkMajority(box types.BoundingBox, dark, light types.RGB) bool {
	w := a.img.Width
	dl, ll := colormodel.RelativeLuminance(dark), colormodel.RelativeLuminance(light)
	nDark, nLight := 0, 0
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			l := a.lum[y*w+x]
			if math.Abs(l-dl) < math.Abs(l-ll) {
				nDark++
			} else {
				nLight++
			}
		}
	}
	return nDark > nLight
}
