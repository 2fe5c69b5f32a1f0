// Package classifier decides, for each colocated pixel pair of two images,
// whether the pixels are the same, different, or differ only because of
// anti-aliasing.
package classifier

import (
	"go.skia.org/visualdiff/vdiff/go/colormodel"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// Class is the outcome for one pixel pair.
type Class int

const (
	Same Class = iota
	Different
	AntiAliased
)

// String representation for Classes. The order must match order above.
var classStringRepresentation = []string{
	"same",
	"different",
	"antialiased",
}

func (c Class) String() string {
	return classStringRepresentation[c]
}

// Classifier classifies pixels in the rows two images share. It only reads
// the images and is safe for concurrent use.
type Classifier struct {
	img1, img2   types.Image
	width        int
	height       int
	threshold    float64
	antialiasing bool
}

// New returns a Classifier for the overlapping area of img1 and img2, which
// must have the same width. Pixels whose CIEDE2000 distance exceeds
// threshold are different unless antialiasing is set and the pair looks like
// edge smoothing.
func New(img1, img2 types.Image, threshold float64, antialiasing bool) *Classifier {
	return &Classifier{
		img1:         img1,
		img2:         img2,
		width:        img1.Width,
		height:       min(img1.Height, img2.Height),
		threshold:    threshold,
		antialiasing: antialiasing,
	}
}

// Classify returns the class of the pixel pair at (x, y) along with its
// CIEDE2000 distance. (x, y) must lie inside the overlapping area.
func (c *Classifier) Classify(x, y int) (Class, float64) {
	o := c.img1.Offset(x, y)
	p1 := c.img1.Pix[o : o+4 : o+4]
	p2 := c.img2.Pix[o : o+4 : o+4]
	if p1[0] == p2[0] && p1[1] == p2[1] && p1[2] == p2[2] && p1[3] == p2[3] {
		return Same, 0
	}
	dE := colormodel.DeltaE(c.img1.At(x, y), c.img2.At(x, y))
	if dE <= c.threshold {
		return Same, dE
	}
	if c.antialiasing && (c.antialiased(c.img1, c.img2, x, y) || c.antialiased(c.img2, c.img1, x, y)) {
		return AntiAliased, dE
	}
	return Different, dE
}

// antialiased reports whether (x1, y1) in a sits on a smooth luminance ramp:
// among its 3x3 neighbours in a there are both darker and brighter pixels,
// at most two equal ones, and the darkest or the brightest neighbour lies in
// a flat area of both images.
func (c *Classifier) antialiased(a, b types.Image, x1, y1 int) bool {
	x0, y0 := max(x1-1, 0), max(y1-1, 0)
	x2, y2 := min(x1+1, c.width-1), min(y1+1, c.height-1)

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		// Pixels on the image border get one free equal sibling.
		zeroes = 1
	}
	center := colormodel.Luma(a.At(x1, y1))
	minDelta, maxDelta := 0.0, 0.0
	var minX, minY, maxX, maxY int
	for y := y0; y <= y2; y++ {
		for x := x0; x <= x2; x++ {
			if x == x1 && y == y1 {
				continue
			}
			delta := center - colormodel.Luma(a.At(x, y))
			switch {
			case delta == 0:
				zeroes++
				if zeroes > 2 {
					return false
				}
			case delta < minDelta:
				minDelta, minX, minY = delta, x, y
			case delta > maxDelta:
				maxDelta, maxX, maxY = delta, x, y
			}
		}
	}
	if minDelta == 0 || maxDelta == 0 {
		return false
	}
	return (c.hasManySiblings(a, minX, minY) && c.hasManySiblings(b, minX, minY)) ||
		(c.hasManySiblings(a, maxX, maxY) && c.hasManySiblings(b, maxX, maxY))
}

// hasManySiblings reports whether (x1, y1) has more than two neighbours of
// exactly the same color in img.
func (c *Classifier) hasManySiblings(img types.Image, x1, y1 int) bool {
	x0, y0 := max(x1-1, 0), max(y1-1, 0)
	x2, y2 := min(x1+1, c.width-1), min(y1+1, c.height-1)

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		zeroes = 1
	}
	center := img.At(x1, y1)
	for y := y0; y <= y2; y++ {
		for x := x0; x <= x2; x++ {
			if x == x1 && y == y1 {
				continue
			}
			if img.At(x, y) == center {
				zeroes++
			}
			if zeroes > 2 {
				return true
			}
		}
	}
	return false
}

// Intensity maps a CIEDE2000 distance onto the 0-255 severity scale, where
// 100 (black vs white) and above is 255.
func Intensity(deltaE float64) uint8 {
	if deltaE >= 100 {
		return 255
	}
	if deltaE <= 0 {
		return 0
	}
	return uint8(deltaE*255/100 + 0.5)
}
