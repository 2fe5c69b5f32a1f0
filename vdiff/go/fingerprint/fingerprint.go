// Package fingerprint derives a compact descriptor of where, how large and
// how intense the clusters of a diff are, so that recurring visual changes
// can be grouped across comparisons.
package fingerprint

import (
	"fmt"
	"math"
	"math/bits"
	"sort"

	"go.skia.org/visualdiff/vdiff/go/types"
)

// Similarity weights. They sum to 1.
const (
	zoneWeight      = 0.40
	countWeight     = 0.20
	magnitudeWeight = 0.15
	densityWeight   = 0.15
	intensityWeight = 0.10
)

// zonesPerSide is the side of the square zone grid.
const zonesPerSide = 4

// Magnitude buckets diffPercentage, which is in percent.
func Magnitude(diffPercentage float64) types.Magnitude {
	switch {
	case diffPercentage < 0.1:
		return types.MagnitudeTiny
	case diffPercentage < 1:
		return types.MagnitudeSmall
	case diffPercentage < 5:
		return types.MagnitudeMedium
	case diffPercentage < 20:
		return types.MagnitudeLarge
	default:
		return types.MagnitudeMassive
	}
}

// countBucket maps a cluster count onto 2 bits: 1, 2-3, 4-9, 10+.
func countBucket(n int) uint32 {
	switch {
	case n <= 1:
		return 0
	case n <= 3:
		return 1
	case n <= 9:
		return 2
	default:
		return 3
	}
}

// zone returns the row-major index of the grid cell holding a normalized
// position.
func zone(p [2]float64) uint {
	col := min(zonesPerSide-1, max(0, int(math.Floor(p[0]*zonesPerSide))))
	row := min(zonesPerSide-1, max(0, int(math.Floor(p[1]*zonesPerSide))))
	return uint(row*zonesPerSide + col)
}

// Compute returns the fingerprint of r, or nil if r has no clusters. The
// result does not depend on the order of r.DiffClusters.
func Compute(r *types.DiffResult) *types.DiffFingerprint {
	if r == nil || len(r.DiffClusters) == 0 || r.Width == 0 || r.Height == 0 {
		return nil
	}
	clusters := append([]types.DiffCluster(nil), r.DiffClusters...)
	sort.Slice(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if a.PixelCount != b.PixelCount {
			return a.PixelCount > b.PixelCount
		}
		if a.BoundingBox != b.BoundingBox {
			if a.BoundingBox.X != b.BoundingBox.X {
				return a.BoundingBox.X < b.BoundingBox.X
			}
			if a.BoundingBox.Y != b.BoundingBox.Y {
				return a.BoundingBox.Y < b.BoundingBox.Y
			}
			if a.BoundingBox.Width != b.BoundingBox.Width {
				return a.BoundingBox.Width < b.BoundingBox.Width
			}
			return a.BoundingBox.Height < b.BoundingBox.Height
		}
		if a.CenterOfMass != b.CenterOfMass {
			if a.CenterOfMass[0] != b.CenterOfMass[0] {
				return a.CenterOfMass[0] < b.CenterOfMass[0]
			}
			return a.CenterOfMass[1] < b.CenterOfMass[1]
		}
		return a.AvgIntensity < b.AvgIntensity
	})

	w, h := float64(r.Width), float64(r.Height)
	area := w * h
	fp := &types.DiffFingerprint{
		ClusterCount:     len(clusters),
		ClusterPositions: make([][2]float64, 0, len(clusters)),
		ClusterSizes:     make([]float64, 0, len(clusters)),
		DiffMagnitude:    Magnitude(r.DiffPercentage),
	}
	pixels, weighted, density := 0, 0.0, 0.0
	for _, c := range clusters {
		pos := [2]float64{(c.CenterOfMass[0] + 0.5) / w, (c.CenterOfMass[1] + 0.5) / h}
		fp.ClusterPositions = append(fp.ClusterPositions, pos)
		fp.ClusterSizes = append(fp.ClusterSizes, float64(c.PixelCount)/area)
		fp.ZoneMask |= 1 << zone(pos)
		pixels += c.PixelCount
		weighted += c.AvgIntensity * float64(c.PixelCount)
		if a := c.BoundingBox.Area(); a > 0 {
			density += math.Min(1, float64(c.PixelCount)/float64(a))
		}
	}
	if pixels > 0 {
		fp.AvgIntensity = weighted / float64(pixels)
	}
	fp.AvgDensity = density / float64(len(clusters))
	fp.Hash = Hash(fp)
	return fp
}

// Hash packs the zone mask, magnitude bucket and cluster count bucket into
// six hex digits. Equal fingerprints always hash equally.
func Hash(fp *types.DiffFingerprint) string {
	v := uint32(fp.ZoneMask)<<5 | uint32(fp.DiffMagnitude&0x7)<<2 | countBucket(fp.ClusterCount)
	return fmt.Sprintf("%06x", v)
}

// Similarity scores two fingerprints in [0,1], 1 meaning same zones, count,
// magnitude, density and intensity. A nil fingerprint is similar to nothing.
func Similarity(a, b *types.DiffFingerprint) float64 {
	if a == nil || b == nil {
		return 0
	}
	zones := 1.0
	if union := bits.OnesCount16(a.ZoneMask | b.ZoneMask); union > 0 {
		zones = float64(bits.OnesCount16(a.ZoneMask&b.ZoneMask)) / float64(union)
	}
	count := 1.0
	if m := max(a.ClusterCount, b.ClusterCount); m > 0 {
		count = 1 - math.Abs(float64(a.ClusterCount-b.ClusterCount))/float64(m)
	}
	magnitude := 0.0
	switch d := a.DiffMagnitude - b.DiffMagnitude; {
	case d == 0:
		magnitude = 1
	case d == 1 || d == -1:
		magnitude = 0.5
	}
	density := 1 - math.Abs(a.AvgDensity-b.AvgDensity)
	intensity := 1 - math.Abs(a.AvgIntensity-b.AvgIntensity)/255
	score := zoneWeight*zones + countWeight*count + magnitudeWeight*magnitude +
		densityWeight*density + intensityWeight*intensity
	return math.Max(0, math.Min(1, score))
}
