package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.skia.org/visualdiff/vdiff/go/types"
)

func solid(w, h int, c types.RGBA) types.Image {
	img := types.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

var (
	black = types.RGBA{A: 255}
	white = types.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = types.RGBA{R: 255, A: 255}
)

// ramp returns a 5x5 image that goes black, black, mid, white, white from
// left to right.
func ramp(mid uint8) types.Image {
	img := solid(5, 5, black)
	for y := 0; y < 5; y++ {
		img.Set(2, y, types.RGBA{R: mid, G: mid, B: mid, A: 255})
		img.Set(3, y, white)
		img.Set(4, y, white)
	}
	return img
}

func TestClassify_IdenticalPixels_Same(t *testing.T) {
	img := solid(3, 3, red)
	c := New(img, img, 2.0, true)
	class, dE := c.Classify(1, 1)
	assert.Equal(t, Same, class)
	assert.Equal(t, 0.0, dE)
}

func TestClassify_BelowThreshold_Same(t *testing.T) {
	a := solid(1, 1, types.RGBA{R: 128, G: 128, B: 128, A: 255})
	b := solid(1, 1, types.RGBA{R: 129, G: 129, B: 129, A: 255})
	class, dE := New(a, b, 2.0, true).Classify(0, 0)
	assert.Equal(t, Same, class)
	assert.Greater(t, dE, 0.0)

	class, _ = New(a, b, 0.0, true).Classify(0, 0)
	assert.Equal(t, Different, class)
}

func TestClassify_SolidBlock_Different(t *testing.T) {
	a := solid(10, 10, black)
	b := solid(10, 10, black)
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			b.Set(x, y, red)
		}
	}
	c := New(a, b, 2.0, true)
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			class, _ := c.Classify(x, y)
			assert.Equal(t, Different, class, "(%d, %d)", x, y)
		}
	}
	class, _ := c.Classify(0, 0)
	assert.Equal(t, Same, class)
}

func TestClassify_SmoothedEdge_AntiAliased(t *testing.T) {
	a := ramp(128)
	b := ramp(100)

	class, dE := New(a, b, 2.0, true).Classify(2, 2)
	assert.Equal(t, AntiAliased, class)
	assert.Greater(t, dE, 2.0)

	class, _ = New(a, b, 2.0, false).Classify(2, 2)
	assert.Equal(t, Different, class)
}

func TestClassify_AntiAliasing_IsSymmetric(t *testing.T) {
	a := ramp(128)
	b := ramp(100)
	ab, _ := New(a, b, 2.0, true).Classify(2, 2)
	ba, _ := New(b, a, 2.0, true).Classify(2, 2)
	assert.Equal(t, ab, ba)
}

func TestClassify_DifferentHeights_UsesOverlap(t *testing.T) {
	a := solid(3, 2, black)
	b := solid(3, 4, black)
	b.Set(1, 1, white)
	c := New(a, b, 2.0, true)
	class, _ := c.Classify(1, 1)
	assert.Equal(t, Different, class)
}

func TestIntensity(t *testing.T) {
	assert.Equal(t, uint8(0), Intensity(0))
	assert.Equal(t, uint8(255), Intensity(100))
	assert.Equal(t, uint8(255), Intensity(140))
	assert.Equal(t, uint8(128), Intensity(50))
	assert.Equal(t, uint8(5), Intensity(2))
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "antialiased", AntiAliased.String())
}
