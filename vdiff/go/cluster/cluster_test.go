package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willf/bitset"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// grid builds a Grid from rows of '#' (set) and '.' (unset).
func grid(rows ...string) Grid {
	w, h := len(rows[0]), len(rows)
	g := Grid{Width: w, Height: h, Mask: bitset.New(uint(w * h)), Intensity: make([]uint8, w*h), ExtraFromRow: h}
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				g.Mask.Set(uint(y*w + x))
				g.Intensity[y*w+x] = 100
			}
		}
	}
	return g
}

func TestLabel_EightConnectivity(t *testing.T) {
	g := grid(
		"#.....",
		".#..##",
		"..#.##",
		"......",
		"#.....",
	)
	comps := Label(g)
	require.Len(t, comps, 3)

	// The diagonal counts as one component.
	assert.Equal(t, 3, comps[0].Count)
	assert.Equal(t, types.BoundingBox{X: 0, Y: 0, Width: 3, Height: 3}, comps[0].Box)
	assert.Equal(t, [2]float64{1, 1}, comps[0].CenterOfMass())
	assert.Equal(t, 100.0, comps[0].AvgIntensity())

	assert.Equal(t, 4, comps[1].Count)
	assert.Equal(t, types.BoundingBox{X: 4, Y: 1, Width: 2, Height: 2}, comps[1].Box)
	assert.Equal(t, [2]float64{4.5, 1.5}, comps[1].CenterOfMass())

	assert.Equal(t, 1, comps[2].Count)
}

func TestLabel_PartitionsEveryPixel(t *testing.T) {
	g := grid(
		"##..#..#",
		"#...#.##",
		"..#.....",
		"###..###",
	)
	comps := Label(g)
	seen := map[int]bool{}
	total := 0
	for _, c := range comps {
		total += c.Count
		assert.Len(t, c.Members, c.Count)
		for _, m := range c.Members {
			assert.False(t, seen[m], "pixel %d in two components", m)
			seen[m] = true
			assert.True(t, g.Mask.Test(uint(m)))
		}
	}
	assert.Equal(t, int(g.Mask.Count()), total)

	merged := Merge(comps, options.MergeOptions{YBandTolerance: 100, HorizontalDistance: 100, MaxHeightRatio: 100, MaxWidthRatio: 100})
	require.Len(t, merged, 1)
	assert.Equal(t, total, merged[0].Count)
}

func TestFilterNoise_KeepsHeightExtra(t *testing.T) {
	g := grid(
		"#...##",
		"....##",
		"#.....",
	)
	g.ExtraFromRow = 2
	comps := Label(g)
	require.Len(t, comps, 3)

	kept := FilterNoise(comps, 2)
	require.Len(t, kept, 2)
	assert.Equal(t, 4, kept[0].Count)
	assert.True(t, kept[1].HeightExtra)
	assert.Equal(t, 1, kept[1].Count)
}

func TestFilterNoise_Monotonic(t *testing.T) {
	g := grid(
		"#..##..###",
		"...##..###",
		"#.......##",
	)
	comps := Label(g)
	prev := len(comps) + 1
	for size := 0; size < 12; size++ {
		n := len(FilterNoise(comps, size))
		assert.LessOrEqual(t, n, prev, "size %d", size)
		prev = n
	}
}

func TestSort_CountDescThenOrigin(t *testing.T) {
	comps := []*Component{
		{Count: 2, Box: types.BoundingBox{X: 5, Y: 0}},
		{Count: 5, Box: types.BoundingBox{X: 9, Y: 9}},
		{Count: 2, Box: types.BoundingBox{X: 1, Y: 7}},
		{Count: 2, Box: types.BoundingBox{X: 1, Y: 3}},
	}
	Sort(comps)
	assert.Equal(t, 5, comps[0].Count)
	assert.Equal(t, types.BoundingBox{X: 1, Y: 3}, comps[1].Box)
	assert.Equal(t, types.BoundingBox{X: 1, Y: 7}, comps[2].Box)
	assert.Equal(t, types.BoundingBox{X: 5, Y: 0}, comps[3].Box)
}

func TestMerge_LettersOnOneLine(t *testing.T) {
	// Three 3x5 glyphs two columns apart, and one far below.
	g := grid(
		"###..###..###",
		"#.#..#.#..#.#",
		"###..###..###",
		"#.#..#.#..#.#",
		"#.#..#.#..#.#",
		".............",
		".............",
		".............",
		".............",
		".............",
		".............",
		".............",
		"###..........",
	)
	comps := Label(g)
	require.Len(t, comps, 4)

	merged := Merge(comps, options.DefaultMergeOptions())
	require.Len(t, merged, 2)
	assert.Equal(t, types.BoundingBox{X: 0, Y: 0, Width: 13, Height: 5}, merged[0].Box)
	assert.Equal(t, 3*comps[0].Count, merged[0].Count)
	assert.Equal(t, 3, merged[1].Count)
}

func TestMerge_RespectsSizeRatio(t *testing.T) {
	// A tall bar next to a dot: height ratio 5 > 2.
	g := grid(
		"#...",
		"#...",
		"#..#",
		"#...",
		"#...",
	)
	merged := Merge(Label(g), options.DefaultMergeOptions())
	assert.Len(t, merged, 2)
}

func TestMerge_Transitive(t *testing.T) {
	// a and c are too far apart, but b bridges them.
	a := &Component{Count: 4, Box: types.BoundingBox{X: 0, Y: 0, Width: 4, Height: 4}, First: 0}
	b := &Component{Count: 4, Box: types.BoundingBox{X: 14, Y: 0, Width: 4, Height: 4}, First: 14}
	c := &Component{Count: 4, Box: types.BoundingBox{X: 28, Y: 0, Width: 4, Height: 4}, First: 28}
	opts := options.DefaultMergeOptions()
	opts.HorizontalDistance = 10
	opts.MaxWidthRatio = 10
	merged := Merge([]*Component{a, c, b}, opts)
	require.Len(t, merged, 1)
	assert.Equal(t, 12, merged[0].Count)
	assert.Equal(t, types.BoundingBox{X: 0, Y: 0, Width: 32, Height: 4}, merged[0].Box)
}

func TestGap(t *testing.T) {
	assert.Equal(t, 0, gap(0, 3, 3, 5))
	assert.Equal(t, 2, gap(0, 3, 5, 8))
	assert.Equal(t, 2, gap(5, 8, 0, 3))
	assert.Equal(t, 0, gap(0, 10, 2, 4))
}

func TestDiffClusters(t *testing.T) {
	g := grid("##")
	dc := DiffClusters(Label(g))
	require.Len(t, dc, 1)
	assert.Equal(t, types.DiffCluster{
		PixelCount:   2,
		CenterOfMass: [2]float64{0.5, 0},
		AvgIntensity: 100,
		BoundingBox:  types.BoundingBox{Width: 2, Height: 1},
	}, dc[0])
}
