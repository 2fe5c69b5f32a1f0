package types

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCvdType_AliasesResolveToCanonical(t *testing.T) {
	for name, want := range map[string]CvdType{
		"protanopia":    Protanopia,
		"protan":        Protanopia,
		"Deutan":        Deuteranopia,
		" tritanopia ":  Tritanopia,
		"ACHROMATOPSIA": Achromatopsia,
		"achroma":       Achromatopsia,
		"deuteranopia":  Deuteranopia,
		"tritan":        Tritanopia,
	} {
		got, err := ParseCvdType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestParseCvdType_Unknown_ReturnsErrUnknownCvdType(t *testing.T) {
	_, err := ParseCvdType("tetrachromacy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCvdType))
	assert.Contains(t, err.Error(), `"tetrachromacy"`)
}

func TestCvdType_JSONUsesCanonicalName(t *testing.T) {
	b, err := json.Marshal(struct {
		T CvdType `json:"t"`
	}{T: Deuteranopia})
	require.NoError(t, err)
	assert.Equal(t, `{"t":"deuteranopia"}`, string(b))

	var out struct {
		T CvdType `json:"t"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"t":"tritan"}`), &out))
	assert.Equal(t, Tritanopia, out.T)
}

func TestMagnitude_String(t *testing.T) {
	assert.Equal(t, "tiny", MagnitudeTiny.String())
	assert.Equal(t, "massive", MagnitudeMassive.String())
	assert.Equal(t, "unknown", Magnitude(42).String())
}

func TestImage_Validate(t *testing.T) {
	assert.NoError(t, NewImage(3, 2).Validate())

	err := Image{Width: 3, Height: 2, Pix: make([]uint8, 5)}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidColor))
	assert.Contains(t, err.Error(), "3x2")

	assert.True(t, errors.Is(Image{Width: -1}.Validate(), ErrInvalidColor))
}

func TestFromImage_OffsetBoundsAndPremultipliedSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.RGBA{R: 255, A: 255})
	src.Set(6, 5, color.RGBA{R: 0x40, A: 0x80})

	img := FromImage(src)
	require.NoError(t, img.Validate())
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, RGBA{R: 255, A: 255}, img.At(0, 0))
	// 0x40 premultiplied by 0x80 alpha is roughly 0x7f non-premultiplied.
	assert.InDelta(t, 0x7f, int(img.At(1, 0).R), 1)
	assert.Equal(t, uint8(0x80), img.At(1, 0).A)
}

func TestFromImage_CopiesPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img := FromImage(src)
	src.Pix[0] = 99
	assert.Equal(t, uint8(0), img.Pix[0])
}

func TestBoundingBox_UnionAndOverlaps(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 2, Height: 2}
	b := BoundingBox{X: 5, Y: 1, Width: 1, Height: 4}
	assert.Equal(t, BoundingBox{X: 0, Y: 0, Width: 6, Height: 5}, a.Union(b))
	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Overlaps(BoundingBox{X: 1, Y: 1, Width: 1, Height: 1}))
	// Touching edges do not overlap.
	assert.False(t, a.Overlaps(BoundingBox{X: 2, Y: 0, Width: 1, Height: 1}))
}
