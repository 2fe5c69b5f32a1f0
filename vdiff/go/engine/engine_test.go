package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.skia.org/visualdiff/vdiff/go/image/text"
	"go.skia.org/visualdiff/vdiff/go/imgio"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/render"
	"go.skia.org/visualdiff/vdiff/go/types"
)

var (
	black = types.RGBA{A: 255}
	red   = types.RGBA{R: 255, A: 255}
	white = types.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const grayFourByFour = `! SKTEXTSIMPLE
4 4
0x80 0x80 0x80 0x80
0x80 0x80 0x80 0x80
0x80 0x80 0x80 0x80
0x80 0x80 0x80 0x80`

func solid(w, h int, c types.RGBA) types.Image {
	img := types.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func fill(img types.Image, x0, y0, w, h int, c types.RGBA) types.Image {
	ret := types.Image{Width: img.Width, Height: img.Height, Pix: append([]uint8(nil), img.Pix...)}
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			ret.Set(x, y, c)
		}
	}
	return ret
}

// redBlock is a 10x10 black image with a 3x3 red block at (2,2).
func redBlock() (types.Image, types.Image) {
	a := solid(10, 10, black)
	return a, fill(a, 2, 2, 3, 3, red)
}

// scattered has three separate changed areas of 1, 4 and 9 pixels.
func scattered() (types.Image, types.Image) {
	a := solid(20, 20, white)
	b := fill(a, 1, 1, 1, 1, black)
	b = fill(b, 6, 6, 2, 2, black)
	b = fill(b, 12, 12, 3, 3, black)
	return a, b
}

func TestCompare_IdenticalGray_NoDifferences(t *testing.T) {
	img := text.MustParse(grayFourByFour)
	opts := options.DefaultCompareOptions()
	opts.IncludeSSIM = true

	c, err := Compare(img, img, opts)
	require.NoError(t, err)
	r := c.Result
	assert.Equal(t, 0, r.DiffPixels)
	assert.Equal(t, 16, r.TotalPixels)
	assert.False(t, r.IsDifferent)
	assert.Nil(t, r.BoundingBox)
	assert.Nil(t, r.DiffClusters)
	assert.Nil(t, r.DiffPixelList)
	assert.Nil(t, r.GMSD)
	require.NotNil(t, r.SSIM)
	assert.Equal(t, 1.0, *r.SSIM)
	assert.Nil(t, c.Layout)

	opts.IncludeClusters = true
	opts.IncludeDiffPixels = true
	c, err = Compare(img, img, opts)
	require.NoError(t, err)
	assert.NotNil(t, c.Result.DiffClusters)
	assert.Empty(t, c.Result.DiffClusters)
	assert.NotNil(t, c.Result.DiffPixelList)
	assert.Empty(t, c.Result.DiffPixelList)
}

func TestCompare_RedBlock_OneCluster(t *testing.T) {
	a, b := redBlock()
	opts := options.DefaultCompareOptions()
	opts.MinClusterSize = 1
	opts.IncludeClusters = true

	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	r := c.Result
	assert.Equal(t, 9, r.DiffPixels)
	assert.InDelta(t, 9.0, r.DiffPercentage, 1e-9)
	assert.True(t, r.IsDifferent)
	assert.Equal(t, &types.BoundingBox{X: 2, Y: 2, Width: 3, Height: 3}, r.BoundingBox)
	require.Len(t, r.DiffClusters, 1)
	assert.Equal(t, 9, r.DiffClusters[0].PixelCount)
	assert.Equal(t, [2]float64{3, 3}, r.DiffClusters[0].CenterOfMass)
	assert.Nil(t, r.DiffClusters[0].Accessibility)
}

func TestCompare_RedBlock_FilteredAsNoise(t *testing.T) {
	a, b := redBlock()
	opts := options.DefaultCompareOptions()
	opts.MinClusterSize = 10
	opts.IncludeClusters = true

	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Result.DiffPixels)
	assert.NotNil(t, c.Result.DiffClusters)
	assert.Empty(t, c.Result.DiffClusters)
	assert.False(t, c.Result.IsDifferent)

	// The verdict does not depend on whether clusters were requested.
	opts.IncludeClusters = false
	c, err = Compare(a, b, opts)
	require.NoError(t, err)
	assert.False(t, c.Result.IsDifferent)
	assert.Nil(t, c.Result.DiffClusters)
}

func TestCompare_HeightOnly_AlwaysDifferent(t *testing.T) {
	a := solid(10, 100, white)
	b := solid(10, 102, white)
	opts := options.DefaultCompareOptions()
	opts.MinClusterSize = 1000
	opts.IncludeClusters = true
	opts.IncludeGMSD = true

	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	r := c.Result
	assert.Equal(t, &types.HeightDiff{Height1: 100, Height2: 102, ExtraPixels: 20}, r.HeightDiff)
	assert.Equal(t, 20, r.DiffPixels)
	assert.Equal(t, 1020, r.TotalPixels)
	assert.True(t, r.IsDifferent)
	require.Len(t, r.DiffClusters, 1)
	assert.Equal(t, 20, r.DiffClusters[0].PixelCount)
	assert.Equal(t, 255.0, r.DiffClusters[0].AvgIntensity)
	// GMSD needs equal sizes and degrades to nil.
	assert.Nil(t, r.GMSD)
}

func TestCompare_IsSymmetric(t *testing.T) {
	a, b := scattered()
	opts := options.DefaultCompareOptions()
	ab, err := Compare(a, b, opts)
	require.NoError(t, err)
	ba, err := Compare(b, a, opts)
	require.NoError(t, err)
	assert.Equal(t, ab.Result.DiffPixels, ba.Result.DiffPixels)
	assert.InDelta(t, ab.Result.DiffPercentage, ba.Result.DiffPercentage, 1e-12)
}

func TestCompare_MinClusterSize_Monotonic(t *testing.T) {
	a, b := scattered()
	prev := -1
	for size := 1; size <= 12; size++ {
		opts := options.DefaultCompareOptions()
		opts.IncludeClusters = true
		opts.MinClusterSize = size
		c, err := Compare(a, b, opts)
		require.NoError(t, err)
		assert.Equal(t, 14, c.Result.DiffPixels, "size=%d", size)
		if prev >= 0 {
			assert.LessOrEqual(t, len(c.Result.DiffClusters), prev, "size=%d", size)
		}
		prev = len(c.Result.DiffClusters)
	}
	assert.Equal(t, 0, prev)
}

func TestCompare_ClustersPartitionDiffPixels(t *testing.T) {
	a, b := scattered()
	opts := options.DefaultCompareOptions()
	opts.IncludeClusters = true
	opts.MinClusterSize = 1
	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	sum := 0
	for _, cl := range c.Result.DiffClusters {
		sum += cl.PixelCount
	}
	assert.Equal(t, c.Result.DiffPixels, sum)
	assert.Equal(t, []int{9, 4, 1}, []int{
		c.Result.DiffClusters[0].PixelCount,
		c.Result.DiffClusters[1].PixelCount,
		c.Result.DiffClusters[2].PixelCount,
	})

	opts.MergeClusters = true
	opts.Merge.HorizontalDistance = 20
	opts.Merge.YBandTolerance = 20
	opts.Merge.MaxHeightRatio = 10
	opts.Merge.MaxWidthRatio = 10
	c, err = Compare(a, b, opts)
	require.NoError(t, err)
	require.Len(t, c.Result.DiffClusters, 1)
	assert.Equal(t, 14, c.Result.DiffClusters[0].PixelCount)
}

func TestCompare_MaxDiffs_Partial(t *testing.T) {
	a, b := redBlock()
	opts := options.DefaultCompareOptions()
	opts.MaxDiffs = 3
	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	assert.True(t, c.Result.Partial)
	assert.Equal(t, 3, c.Result.DiffPixels)
	assert.Equal(t, 100, c.Result.TotalPixels)
}

func TestCompare_WidthMismatch_Fatal(t *testing.T) {
	_, err := Compare(solid(4, 4, white), solid(5, 4, white), options.DefaultCompareOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDimensionMismatch))
	assert.Contains(t, err.Error(), "4x4 vs 5x4")
}

func TestCompare_InvalidOptions(t *testing.T) {
	opts := options.DefaultCompareOptions()
	opts.Threshold = -1
	_, err := Compare(solid(1, 1, white), solid(1, 1, white), opts)
	assert.Error(t, err)
}

func TestCompare_WorkerCountAndAsync_Identical(t *testing.T) {
	a, b := scattered()
	opts := options.DefaultCompareOptions()
	opts.IncludeClusters = true
	opts.IncludeDiffPixels = true
	opts.IncludeIntensityStats = true
	opts.IncludeSSIM = true
	opts.IncludeGMSD = true
	opts.Workers = 1
	want, err := Compare(a, b, opts)
	require.NoError(t, err)

	opts.Workers = 7
	got, err := Compare(a, b, opts)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want.Result, got.Result))

	async := <-CompareAsync(a, b, opts)
	require.NoError(t, async.Err)
	assert.Empty(t, cmp.Diff(want.Result, async.Comparison.Result))
}

func TestCompare_Accessibility(t *testing.T) {
	a, b := redBlock()
	opts := options.DefaultCompareOptions()
	opts.MinClusterSize = 1
	opts.CheckColorBlindness = true

	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	require.Len(t, c.Result.DiffClusters, 1)
	m := c.Result.DiffClusters[0].Accessibility
	require.NotNil(t, m)
	assert.Equal(t, types.RGB{}, m.BaselineColor)
	assert.Equal(t, types.RGB{R: 255}, m.CurrentColor)
	assert.Greater(t, m.ColorDeltaE, 30.0)
	assert.InDelta(t, 1.0, m.BaselineContrast, 1e-9)
	assert.InDelta(t, 5.25, m.CurrentContrast, 0.01)
	assert.False(t, m.IntroducedContrastFailure)
	require.Len(t, m.ColorBlindness, 3)
	for i, v := range m.ColorBlindness {
		assert.Equal(t, types.DichromatTypes[i], v.Type)
		assert.GreaterOrEqual(t, v.VisibilityLoss, 0.0)
		assert.LessOrEqual(t, v.VisibilityLoss, 100.0)
		assert.Equal(t, v.VisibilityLoss >= opts.ColorBlindnessThreshold, v.Reduced)
	}
}

func TestCompare_IntensityStats(t *testing.T) {
	a := solid(4, 4, white)
	b := fill(a, 0, 0, 2, 1, black)
	opts := options.DefaultCompareOptions()
	opts.Antialiasing = false
	opts.IncludeIntensityStats = true
	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	s := c.Result.IntensityStats
	require.NotNil(t, s)
	assert.Equal(t, 255, s.Max)
	assert.Equal(t, 255, s.Min)
	assert.Equal(t, 0.0, s.StdDev)
}

func TestWriteArtifacts_WritesRequestedFiles(t *testing.T) {
	dir := t.TempDir()
	a, b := redBlock()
	opts := options.DefaultCompareOptions()
	opts.DiffPath = filepath.Join(dir, "diff.png")
	opts.MaskPath = filepath.Join(dir, "mask.png")
	opts.DiffColor = "0,0,255"

	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	require.NotNil(t, c.Layout)
	require.NoError(t, WriteArtifacts(c, a, b, opts, nil))

	diff, err := imgio.Load(opts.DiffPath)
	require.NoError(t, err)
	assert.Equal(t, types.RGBA{B: 255, A: 255}, diff.At(3, 3))
	assert.Equal(t, black, diff.At(0, 0))

	mask, err := imgio.Load(opts.MaskPath)
	require.NoError(t, err)
	assert.Equal(t, types.RGBA{}, mask.At(0, 0))
	assert.Equal(t, types.RGBA{B: 255, A: 255}, mask.At(2, 2))
	assert.NoFileExists(t, filepath.Join(dir, "overlay.png"))

	// Existing files are kept unless overwrite is set.
	err = WriteArtifacts(c, a, b, opts, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrArtifactWrite))
	opts.Overwrite = true
	require.NoError(t, WriteArtifacts(c, a, b, opts, nil))
}

func TestWriteArtifacts_NoPaths_NoOp(t *testing.T) {
	assert.NoError(t, WriteArtifacts(nil, types.Image{}, types.Image{}, options.DefaultCompareOptions(), nil))
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	a, b := redBlock()
	paths := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}
	require.NoError(t, render.PNGSink{}.Write(a, paths[0]))
	require.NoError(t, render.PNGSink{}.Write(b, paths[1]))
	c, err := CompareFiles(paths[0], paths[1], options.DefaultCompareOptions())
	require.NoError(t, err)
	assert.Equal(t, 9, c.Result.DiffPixels)

	_, err = CompareFiles(paths[0], filepath.Join(dir, "nope.png"), options.DefaultCompareOptions())
	assert.Error(t, err)
}

func TestSimulateCVD_UnknownType(t *testing.T) {
	_, err := SimulateCVD(solid(1, 1, red), "purple")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnknownCvdType))

	img, err := SimulateCVD(solid(1, 1, red), "ACHROMA")
	require.NoError(t, err)
	c := img.At(0, 0)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
}

func TestFingerprint_FromComparison(t *testing.T) {
	a, b := scattered()
	opts := options.DefaultCompareOptions()
	opts.IncludeClusters = true
	c, err := Compare(a, b, opts)
	require.NoError(t, err)
	fp := Fingerprint(c.Result)
	require.NotNil(t, fp)
	assert.Equal(t, 2, fp.ClusterCount)
	assert.Equal(t, fp.Hash, FingerprintHash(fp))
	assert.InDelta(t, 1.0, FingerprintSimilarity(fp, fp), 1e-12)

	plain, err := Compare(a, b, options.DefaultCompareOptions())
	require.NoError(t, err)
	assert.Nil(t, Fingerprint(plain.Result))
}
