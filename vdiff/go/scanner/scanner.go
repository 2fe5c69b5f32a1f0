// Package scanner walks two images, classifies every pixel pair and reduces
// the outcome into counts, a bounding box, a diff mask and an intensity
// plane. Rows are partitioned across a bounded worker pool; the reduction is
// associative and commutative so the partition never shows in the result.
package scanner

import (
	"math"
	"runtime"
	"sort"

	"github.com/willf/bitset"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/go/util"
	"go.skia.org/visualdiff/vdiff/go/classifier"
	"go.skia.org/visualdiff/vdiff/go/types"
	"golang.org/x/sync/errgroup"
)

// chunksPerWorker controls how finely rows are split, so that uneven rows
// (e.g. many AA checks in one area) still balance across workers.
const chunksPerWorker = 4

// Options configures a scan.
type Options struct {
	Threshold    float64
	Antialiasing bool
	// MaxDiffs stops the scan once this many different pixels have been
	// counted. A positive value forces a single ordered pass.
	MaxDiffs int
	// CollectPixels keeps every DiffPixel in Result.Pixels.
	CollectPixels bool
	// Workers is the pool size; zero means runtime.NumCPU().
	Workers int
}

// Result is the reduced outcome of a scan.
type Result struct {
	// Width is the common width, Height the larger height and OverlapHeight
	// the smaller one. Rows at or below OverlapHeight are height-extra rows.
	Width         int
	Height        int
	OverlapHeight int

	DiffPixels      int
	AAPixelsIgnored int
	// Partial is set when MaxDiffs stopped the scan before the last pixel.
	Partial bool

	BoundingBox *types.BoundingBox
	HeightDiff  *types.HeightDiff

	// Mask has bit y*Width+x set for every different pixel.
	Mask *bitset.BitSet
	// Intensity holds the severity of every different pixel, indexed like
	// Mask. Entries of pixels that are not different are zero.
	Intensity []uint8
	// Pixels is non-nil only when Options.CollectPixels is set, sorted by
	// row then column.
	Pixels []types.DiffPixel
	// Histogram counts different pixels per intensity.
	Histogram [256]int
}

// TotalPixels is the size of the compared extent, regardless of Partial.
func (r *Result) TotalPixels() int {
	return r.Width * r.Height
}

// IsHeightExtra reports whether row y exists in only one of the images.
func (r *Result) IsHeightExtra(y int) bool {
	return y >= r.OverlapHeight
}

// Scan compares img1 and img2, which must have the same width.
func Scan(img1, img2 types.Image, opts Options) (*Result, error) {
	if err := img1.Validate(); err != nil {
		return nil, skerr.Wrapf(err, "first image")
	}
	if err := img2.Validate(); err != nil {
		return nil, skerr.Wrapf(err, "second image")
	}
	if img1.Width != img2.Width {
		return nil, skerr.Wrapf(types.ErrDimensionMismatch, "widths differ: %dx%d vs %dx%d", img1.Width, img1.Height, img2.Width, img2.Height)
	}
	width := img1.Width
	height := max(img1.Height, img2.Height)
	ret := &Result{
		Width:         width,
		Height:        height,
		OverlapHeight: min(img1.Height, img2.Height),
		Mask:          bitset.New(uint(width * height)),
		Intensity:     make([]uint8, width*height),
	}
	if opts.CollectPixels {
		ret.Pixels = []types.DiffPixel{}
	}
	if img1.Height != img2.Height {
		ret.HeightDiff = &types.HeightDiff{
			Height1:     img1.Height,
			Height2:     img2.Height,
			ExtraPixels: util.AbsInt(img1.Height-img2.Height) * width,
		}
	}
	if width == 0 || height == 0 {
		return ret, nil
	}

	c := classifier.New(img1, img2, opts.Threshold, opts.Antialiasing)
	if opts.MaxDiffs > 0 {
		p := newPartial(0, height, width, opts.CollectPixels)
		ret.Partial = p.scan(c, ret, 0, height, opts.MaxDiffs)
		ret.merge(p)
		return ret, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var g errgroup.Group
	g.SetLimit(workers)
	var partials []*partial
	err := util.ChunkIter(height, util.ChunkSize(height, workers*chunksPerWorker), func(start, end int) error {
		p := newPartial(start, end-start, width, opts.CollectPixels)
		partials = append(partials, p)
		g.Go(func() error {
			p.scan(c, ret, start, end, 0)
			return nil
		})
		return nil
	})
	if err != nil {
		return nil, skerr.Wrap(err)
	}
	if err := g.Wait(); err != nil {
		return nil, skerr.Wrap(err)
	}
	for _, p := range partials {
		ret.merge(p)
	}
	if opts.CollectPixels && !sort.SliceIsSorted(ret.Pixels, pixelLess(ret.Pixels)) {
		sort.Slice(ret.Pixels, pixelLess(ret.Pixels))
	}
	return ret, nil
}

func pixelLess(p []types.DiffPixel) func(i, j int) bool {
	return func(i, j int) bool {
		if p[i].Y != p[j].Y {
			return p[i].Y < p[j].Y
		}
		return p[i].X < p[j].X
	}
}

// partial accumulates the outcome for a contiguous block of rows. Each
// worker owns one, so nothing in it is shared.
type partial struct {
	firstRow int
	width    int

	diff, aa               int
	minX, minY, maxX, maxY int
	hist                   [256]int
	mask                   *bitset.BitSet
	pixels                 []types.DiffPixel
	collect                bool
}

func newPartial(firstRow, rows, width int, collect bool) *partial {
	return &partial{
		firstRow: firstRow,
		width:    width,
		minX:     math.MaxInt,
		minY:     math.MaxInt,
		maxX:     -1,
		maxY:     -1,
		mask:     bitset.New(uint(rows * width)),
		collect:  collect,
	}
}

// scan classifies rows [y0, y1). Intensities go straight into the shared
// plane since every pixel index belongs to exactly one partial. If stopAt is
// positive, it returns true when it stopped early because the count reached
// stopAt with pixels left to scan.
func (p *partial) scan(c *classifier.Classifier, r *Result, y0, y1, stopAt int) bool {
	for y := y0; y < y1; y++ {
		extra := r.IsHeightExtra(y)
		for x := 0; x < p.width; x++ {
			var intensity uint8
			if extra {
				intensity = 255
			} else {
				class, dE := c.Classify(x, y)
				switch class {
				case classifier.Same:
					continue
				case classifier.AntiAliased:
					p.aa++
					continue
				}
				intensity = classifier.Intensity(dE)
			}
			p.record(x, y, intensity, r.Intensity)
			if stopAt > 0 && p.diff >= stopAt {
				return y != y1-1 || x != p.width-1
			}
		}
	}
	return false
}

func (p *partial) record(x, y int, intensity uint8, plane []uint8) {
	p.diff++
	p.minX, p.maxX = min(p.minX, x), max(p.maxX, x)
	p.minY, p.maxY = min(p.minY, y), max(p.maxY, y)
	p.hist[intensity]++
	p.mask.Set(uint((y-p.firstRow)*p.width + x))
	plane[y*p.width+x] = intensity
	if p.collect {
		p.pixels = append(p.pixels, types.DiffPixel{X: x, Y: y, Intensity: intensity})
	}
}

// merge folds p into r.
func (r *Result) merge(p *partial) {
	r.DiffPixels += p.diff
	r.AAPixelsIgnored += p.aa
	for i, n := range p.hist {
		r.Histogram[i] += n
	}
	offset := uint(p.firstRow * p.width)
	for i, ok := p.mask.NextSet(0); ok; i, ok = p.mask.NextSet(i + 1) {
		r.Mask.Set(offset + i)
	}
	if r.Pixels != nil {
		r.Pixels = append(r.Pixels, p.pixels...)
	}
	if p.diff == 0 {
		return
	}
	box := types.BoundingBox{X: p.minX, Y: p.minY, Width: p.maxX - p.minX + 1, Height: p.maxY - p.minY + 1}
	if r.BoundingBox == nil {
		r.BoundingBox = &box
	} else {
		u := r.BoundingBox.Union(box)
		r.BoundingBox = &u
	}
}

// IntensityStats summarizes Histogram. All fields are zero when there are
// no different pixels.
func (r *Result) IntensityStats() types.IntensityStats {
	n := 0
	sum := 0.0
	ret := types.IntensityStats{Min: -1}
	for v, count := range r.Histogram {
		if count == 0 {
			continue
		}
		if ret.Min < 0 {
			ret.Min = v
		}
		ret.Max = v
		n += count
		sum += float64(v * count)
	}
	if n == 0 {
		return types.IntensityStats{}
	}
	ret.Mean = sum / float64(n)
	variance := 0.0
	for v, count := range r.Histogram {
		d := float64(v) - ret.Mean
		variance += d * d * float64(count)
	}
	ret.StdDev = math.Sqrt(variance / float64(n))
	if n%2 == 1 {
		ret.Median = float64(r.nthIntensity(n / 2))
	} else {
		ret.Median = float64(r.nthIntensity(n/2-1)+r.nthIntensity(n/2)) / 2
	}
	return ret
}

// nthIntensity returns the intensity at rank k (0-based) of the sorted
// intensity distribution.
func (r *Result) nthIntensity(k int) int {
	for v, count := range r.Histogram {
		if k < count {
			return v
		}
		k -= count
	}
	return 255
}
