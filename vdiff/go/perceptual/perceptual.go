// Package perceptual computes opt-in perceptual quality scores: the
// structural similarity index (SSIM) and the gradient magnitude similarity
// deviation (GMSD).
package perceptual

import (
	"math"
	"runtime"

	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/go/util"
	"go.skia.org/visualdiff/vdiff/go/colormodel"
	"go.skia.org/visualdiff/vdiff/go/types"
	"golang.org/x/sync/errgroup"
)

const (
	// ssimWindow is the side of the square SSIM window.
	ssimWindow = 11

	// ssimC1 and ssimC2 are the SSIM stabilizers for 8-bit data,
	// (0.01*255)^2 and (0.03*255)^2.
	ssimC1 = 6.5025
	ssimC2 = 58.5225

	// gmsdC is the GMSD stabilizer for 8-bit data.
	gmsdC = 170.0
)

func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// forRows runs fn over [0, rows) split into chunks on a bounded pool.
func forRows(rows, workers int, fn func(start, end int)) error {
	workers = workerCount(workers)
	var g errgroup.Group
	g.SetLimit(workers)
	err := util.ChunkIter(rows, util.ChunkSize(rows, workers*4), func(start, end int) error {
		g.Go(func() error {
			fn(start, end)
			return nil
		})
		return nil
	})
	if err != nil {
		return skerr.Wrap(err)
	}
	return g.Wait()
}

// grayPlane returns the rounded luma of the first rows of img.
func grayPlane(img types.Image, rows int) []int64 {
	ret := make([]int64, img.Width*rows)
	for i := range ret {
		p := img.Pix[4*i : 4*i+4 : 4*i+4]
		ret[i] = int64(math.Round(colormodel.Luma(types.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]})))
	}
	return ret
}

// integral is a summed-area table with a zero first row and column.
type integral struct {
	stride int
	sum    []int64
}

func newIntegral(w, h int, value func(i int) int64) integral {
	stride := w + 1
	ret := integral{stride: stride, sum: make([]int64, stride*(h+1))}
	for y := 0; y < h; y++ {
		var row int64
		for x := 0; x < w; x++ {
			row += value(y*w + x)
			ret.sum[(y+1)*stride+x+1] = ret.sum[y*stride+x+1] + row
		}
	}
	return ret
}

// rect returns the sum over [x0, x0+n) x [y0, y0+n).
func (s integral) rect(x0, y0, n int) int64 {
	x1, y1 := x0+n, y0+n
	return s.sum[y1*s.stride+x1] - s.sum[y0*s.stride+x1] - s.sum[y1*s.stride+x0] + s.sum[y0*s.stride+x0]
}

// SSIM returns the mean structural similarity of the luma of img1 and img2
// over every window position, in [-1, 1] and 1 for identical content. It
// returns 1 without computing anything when diffPixels is 0. Images of
// different heights are compared over the rows they share.
func SSIM(img1, img2 types.Image, diffPixels, workers int) (float64, error) {
	if diffPixels == 0 {
		return 1, nil
	}
	if img1.Width != img2.Width {
		return 0, skerr.Wrapf(types.ErrDimensionMismatch, "SSIM of %dx%d vs %dx%d", img1.Width, img1.Height, img2.Width, img2.Height)
	}
	w, h := img1.Width, min(img1.Height, img2.Height)
	if w == 0 || h == 0 {
		return 0, nil
	}
	win := min(ssimWindow, w, h)
	g1, g2 := grayPlane(img1, h), grayPlane(img2, h)
	sx := newIntegral(w, h, func(i int) int64 { return g1[i] })
	sy := newIntegral(w, h, func(i int) int64 { return g2[i] })
	sxx := newIntegral(w, h, func(i int) int64 { return g1[i] * g1[i] })
	syy := newIntegral(w, h, func(i int) int64 { return g2[i] * g2[i] })
	sxy := newIntegral(w, h, func(i int) int64 { return g1[i] * g2[i] })

	cols, rows := w-win+1, h-win+1
	n := float64(win * win)
	rowSums := make([]float64, rows)
	err := forRows(rows, workers, func(start, end int) {
		for y := start; y < end; y++ {
			sum := 0.0
			for x := 0; x < cols; x++ {
				mx := float64(sx.rect(x, y, win)) / n
				my := float64(sy.rect(x, y, win)) / n
				vx := float64(sxx.rect(x, y, win))/n - mx*mx
				vy := float64(syy.rect(x, y, win))/n - my*my
				cov := float64(sxy.rect(x, y, win))/n - mx*my
				sum += ((2*mx*my + ssimC1) * (2*cov + ssimC2)) /
					((mx*mx + my*my + ssimC1) * (vx + vy + ssimC2))
			}
			rowSums[y] = sum
		}
	})
	if err != nil {
		return 0, skerr.Wrap(err)
	}
	total := 0.0
	for _, s := range rowSums {
		total += s
	}
	return total / float64(rows*cols), nil
}

// GradientMagnitude returns the Sobel gradient magnitude at (x, y) of a
// row-major plane, divided by 4 so a hard step of height d measures d.
// Samples outside the plane are clamped to the border.
func GradientMagnitude(plane []float64, w, h, x, y int) float64 {
	at := func(px, py int) float64 {
		px = max(0, min(w-1, px))
		py = max(0, min(h-1, py))
		return plane[py*w+px]
	}
	gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
		at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
	gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
		at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
	return math.Sqrt(gx*gx+gy*gy) / 4
}

// GMSD returns the gradient magnitude similarity deviation of img1 and
// img2: 0 for identical gradients, larger for less similar ones. Images of
// different sizes fail with types.ErrUnsupportedComparison.
func GMSD(img1, img2 types.Image, workers int) (float64, error) {
	if img1.Width != img2.Width || img1.Height != img2.Height {
		return 0, skerr.Wrapf(types.ErrUnsupportedComparison, "GMSD needs equal sizes, got %dx%d vs %dx%d", img1.Width, img1.Height, img2.Width, img2.Height)
	}
	w, h := img1.Width, img1.Height
	if w == 0 || h == 0 {
		return 0, nil
	}
	l1, l2 := colormodel.LumaPlane(img1), colormodel.LumaPlane(img2)
	gms := make([]float64, w*h)
	err := forRows(h, workers, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				m1 := GradientMagnitude(l1, w, h, x, y)
				m2 := GradientMagnitude(l2, w, h, x, y)
				gms[y*w+x] = (2*m1*m2 + gmsdC) / (m1*m1 + m2*m2 + gmsdC)
			}
		}
	})
	if err != nil {
		return 0, skerr.Wrap(err)
	}
	mean := 0.0
	for _, v := range gms {
		mean += v
	}
	mean /= float64(len(gms))
	variance := 0.0
	for _, v := range gms {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(gms))), nil
}
