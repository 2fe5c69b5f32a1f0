// Package engine is the entry point for comparisons and single image
// analyses. It runs the scan, clustering and scoring stages in order,
// gates optional outputs on the normalized options, and records metrics.
package engine

import (
	"errors"

	"go.skia.org/visualdiff/go/metrics2"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/go/sklog"
	"go.skia.org/visualdiff/vdiff/go/cluster"
	"go.skia.org/visualdiff/vdiff/go/imgio"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/perceptual"
	"go.skia.org/visualdiff/vdiff/go/render"
	"go.skia.org/visualdiff/vdiff/go/scanner"
	"go.skia.org/visualdiff/vdiff/go/types"
)

const (
	comparisonsMetric    = "vdiff_comparisons"
	differentMetric      = "vdiff_different_comparisons"
	diffPercentageMetric = "vdiff_diff_percentage"
)

// Comparison is the outcome of Compare.
type Comparison struct {
	Result *types.DiffResult
	// Layout is the diff mask the artifacts are drawn from. It is nil unless
	// an artifact path was set in the options.
	Layout *render.Layout
}

// Compare diffs img2 against img1. The images must have the same width;
// differing heights are reported through Result.HeightDiff.
func Compare(img1, img2 types.Image, opts options.CompareOptions) (*Comparison, error) {
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, skerr.Wrapf(err, "invalid compare options")
	}
	defer metrics2.NewTimer("compare").Stop()

	scan, err := scanner.Scan(img1, img2, scanner.Options{
		Threshold:     opts.Threshold,
		Antialiasing:  opts.Antialiasing,
		MaxDiffs:      opts.MaxDiffs,
		CollectPixels: opts.IncludeDiffPixels,
		Workers:       opts.Workers,
	})
	if err != nil {
		return nil, skerr.Wrap(err)
	}
	if scan.Partial {
		sklog.Warningf("Scan stopped at maxDiffs=%d; counts cover only the pixels seen", opts.MaxDiffs)
	}

	r := &types.DiffResult{
		Width:           scan.Width,
		Height:          scan.Height,
		TotalPixels:     scan.TotalPixels(),
		DiffPixels:      scan.DiffPixels,
		AAPixelsIgnored: scan.AAPixelsIgnored,
		Partial:         scan.Partial,
		BoundingBox:     scan.BoundingBox,
		HeightDiff:      scan.HeightDiff,
		DiffPixelList:   scan.Pixels,
	}
	if r.TotalPixels > 0 {
		r.DiffPercentage = float64(r.DiffPixels) / float64(r.TotalPixels) * 100
	}

	// Labeling is only needed when noise can be filtered out or clusters
	// were requested.
	var comps []*cluster.Component
	if opts.IncludeClusters || opts.MinClusterSize > 1 {
		comps = cluster.FilterNoise(cluster.Label(cluster.Grid{
			Width:        scan.Width,
			Height:       scan.Height,
			Mask:         scan.Mask,
			Intensity:    scan.Intensity,
			ExtraFromRow: scan.OverlapHeight,
		}), opts.MinClusterSize)
		r.IsDifferent = r.HeightDiff != nil || len(comps) > 0
	} else {
		r.IsDifferent = r.HeightDiff != nil || r.DiffPixels > 0
	}
	if opts.IncludeClusters {
		if opts.MergeClusters {
			comps = cluster.Merge(comps, opts.Merge)
		} else {
			cluster.Sort(comps)
		}
		r.DiffClusters = cluster.DiffClusters(comps)
		if opts.IncludeAccessibilityData {
			for i, c := range comps {
				r.DiffClusters[i].Accessibility = accessibility(img1, img2, scan.Width, c, opts)
			}
		}
	}

	if opts.IncludeIntensityStats {
		stats := scan.IntensityStats()
		r.IntensityStats = &stats
	}
	if opts.IncludeSSIM {
		v, err := perceptual.SSIM(img1, img2, scan.DiffPixels, opts.Workers)
		if err != nil {
			return nil, skerr.Wrapf(err, "computing SSIM")
		}
		r.SSIM = &v
	}
	if opts.IncludeGMSD {
		v, err := perceptual.GMSD(img1, img2, opts.Workers)
		switch {
		case errors.Is(err, types.ErrUnsupportedComparison):
			sklog.Warningf("GMSD not computed: %s", err)
		case err != nil:
			return nil, skerr.Wrapf(err, "computing GMSD")
		default:
			r.GMSD = &v
		}
	}

	metrics2.GetCounter(comparisonsMetric).Inc(1)
	if r.IsDifferent {
		metrics2.GetCounter(differentMetric).Inc(1)
	}
	metrics2.GetFloat64SummaryMetric(diffPercentageMetric).Observe(r.DiffPercentage)
	sklog.Debugf("Compared %dx%d: %d different pixels, %d AA ignored, different=%t", r.Width, r.Height, r.DiffPixels, r.AAPixelsIgnored, r.IsDifferent)

	ret := &Comparison{Result: r}
	if opts.RetainMask {
		ret.Layout = &render.Layout{Width: scan.Width, Height: scan.Height, Mask: scan.Mask}
	}
	return ret, nil
}

// CompareFiles decodes both files and compares them.
func CompareFiles(path1, path2 string, opts options.CompareOptions) (*Comparison, error) {
	img1, err := imgio.Load(path1)
	if err != nil {
		return nil, skerr.Wrap(err)
	}
	img2, err := imgio.Load(path2)
	if err != nil {
		return nil, skerr.Wrap(err)
	}
	return Compare(img1, img2, opts)
}

// CompareBytes decodes two in-memory encoded images and compares them.
func CompareBytes(b1, b2 []byte, opts options.CompareOptions) (*Comparison, error) {
	img1, err := imgio.DecodeBytes(b1)
	if err != nil {
		return nil, skerr.Wrapf(err, "first image")
	}
	img2, err := imgio.DecodeBytes(b2)
	if err != nil {
		return nil, skerr.Wrapf(err, "second image")
	}
	return Compare(img1, img2, opts)
}
