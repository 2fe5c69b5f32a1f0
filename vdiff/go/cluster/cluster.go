// Package cluster groups set pixels of a mask into 8-connected components,
// filters noise, and merges components that look like parts of one line of
// text.
package cluster

import (
	"sort"

	"github.com/willf/bitset"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// Component is a group of connected pixels.
type Component struct {
	// Members are pixel indices (y*width+x) in discovery order.
	Members []int
	// First is the smallest member index. It breaks ties when sorting.
	First int

	Count        int
	SumX, SumY   float64
	SumIntensity float64
	Box          types.BoundingBox
	// HeightExtra is set when any member lies in a row only one of the
	// compared images has. Such components are never noise.
	HeightExtra bool
}

// CenterOfMass is the mean member position.
func (c *Component) CenterOfMass() [2]float64 {
	return [2]float64{c.SumX / float64(c.Count), c.SumY / float64(c.Count)}
}

// AvgIntensity is the mean member intensity.
func (c *Component) AvgIntensity() float64 {
	return c.SumIntensity / float64(c.Count)
}

// DiffCluster converts the component to its result record.
func (c *Component) DiffCluster() types.DiffCluster {
	return types.DiffCluster{
		PixelCount:   c.Count,
		CenterOfMass: c.CenterOfMass(),
		AvgIntensity: c.AvgIntensity(),
		BoundingBox:  c.Box,
	}
}

// absorb merges o into c.
func (c *Component) absorb(o *Component) {
	c.Members = append(c.Members, o.Members...)
	c.First = min(c.First, o.First)
	c.Count += o.Count
	c.SumX += o.SumX
	c.SumY += o.SumY
	c.SumIntensity += o.SumIntensity
	c.Box = c.Box.Union(o.Box)
	c.HeightExtra = c.HeightExtra || o.HeightExtra
}

// Grid describes the mask being labeled.
type Grid struct {
	Width, Height int
	Mask          *bitset.BitSet
	// Intensity, if not nil, holds a per-pixel weight indexed like Mask.
	Intensity []uint8
	// ExtraFromRow marks rows at or below it as height-extra. Use Height or
	// more when there are none.
	ExtraFromRow int
}

var neighbours = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Label finds the 8-connected components of the set pixels in g. Every set
// pixel belongs to exactly one component. Components are returned in the
// order of their first pixel.
func Label(g Grid) []*Component {
	visited := bitset.New(uint(g.Width * g.Height))
	var ret []*Component
	var stack []int
	for i, ok := g.Mask.NextSet(0); ok; i, ok = g.Mask.NextSet(i + 1) {
		if visited.Test(i) {
			continue
		}
		start := int(i)
		c := &Component{
			First: start,
			Box:   types.BoundingBox{X: start % g.Width, Y: start / g.Width, Width: 1, Height: 1},
		}
		visited.Set(i)
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%g.Width, idx/g.Width
			c.add(g, idx, x, y)
			for _, d := range neighbours {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= g.Width || ny >= g.Height {
					continue
				}
				n := uint(ny*g.Width + nx)
				if g.Mask.Test(n) && !visited.Test(n) {
					visited.Set(n)
					stack = append(stack, int(n))
				}
			}
		}
		ret = append(ret, c)
	}
	return ret
}

func (c *Component) add(g Grid, idx, x, y int) {
	c.Members = append(c.Members, idx)
	c.Count++
	c.SumX += float64(x)
	c.SumY += float64(y)
	if g.Intensity != nil {
		c.SumIntensity += float64(g.Intensity[idx])
	}
	c.Box = c.Box.Union(types.BoundingBox{X: x, Y: y, Width: 1, Height: 1})
	if y >= g.ExtraFromRow {
		c.HeightExtra = true
	}
}

// FilterNoise returns the components with at least minSize pixels, plus any
// height-extra component regardless of size.
func FilterNoise(comps []*Component, minSize int) []*Component {
	ret := make([]*Component, 0, len(comps))
	for _, c := range comps {
		if c.Count >= minSize || c.HeightExtra {
			ret = append(ret, c)
		}
	}
	return ret
}

// Sort orders components by pixel count descending, then by bounding box
// origin x and y ascending, then by first pixel.
func Sort(comps []*Component) {
	sort.Slice(comps, func(i, j int) bool {
		a, b := comps[i], comps[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Box.X != b.Box.X {
			return a.Box.X < b.Box.X
		}
		if a.Box.Y != b.Box.Y {
			return a.Box.Y < b.Box.Y
		}
		return a.First < b.First
	})
}

// Merge repeatedly joins any two components that sit on the same text line
// and are close and similar in size, until no pair qualifies. The result is
// sorted. Merging never changes the total pixel count.
func Merge(comps []*Component, opts options.MergeOptions) []*Component {
	ret := append([]*Component(nil), comps...)
	Sort(ret)
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(ret); i++ {
			for j := i + 1; j < len(ret); {
				if !shouldMerge(ret[i].Box, ret[j].Box, opts) {
					j++
					continue
				}
				ret[i].absorb(ret[j])
				ret = append(ret[:j], ret[j+1:]...)
				merged = true
				// ret[i] grew, so pairs already rejected may now qualify.
				j = i + 1
			}
		}
	}
	Sort(ret)
	return ret
}

// gap returns how many empty pixels separate [a0, a1) and [b0, b1), or 0 if
// they overlap or touch.
func gap(a0, a1, b0, b1 int) int {
	return max(0, max(a0, b0)-min(a1, b1))
}

func ratio(a, b int) float64 {
	return float64(max(a, b)) / float64(min(a, b))
}

func shouldMerge(a, b types.BoundingBox, opts options.MergeOptions) bool {
	if gap(a.Y, a.Bottom(), b.Y, b.Bottom()) > opts.YBandTolerance {
		return false
	}
	if gap(a.X, a.Right(), b.X, b.Right()) > opts.HorizontalDistance {
		return false
	}
	return ratio(a.Height, b.Height) <= opts.MaxHeightRatio && ratio(a.Width, b.Width) <= opts.MaxWidthRatio
}

// DiffClusters converts components to result records, preserving order.
func DiffClusters(comps []*Component) []types.DiffCluster {
	ret := make([]types.DiffCluster, 0, len(comps))
	for _, c := range comps {
		ret = append(ret, c.DiffCluster())
	}
	return ret
}
