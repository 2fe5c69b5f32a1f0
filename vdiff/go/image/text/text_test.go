package text

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.skia.org/visualdiff/vdiff/go/types"
)

const colorFixture = `! SKTEXTSIMPLE
2 2
0x112233ff 0xffffffff
0xddeeff00 0xffffff88`

const grayFixture = `! SKTEXTSIMPLE
2 2
0x12 0x34
0xab 0xcd`

func TestRead_ColorNotation(t *testing.T) {
	img, err := Read(strings.NewReader(colorFixture))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, types.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, img.At(0, 0))
	assert.Equal(t, types.RGBA{R: 0xdd, G: 0xee, B: 0xff, A: 0x00}, img.At(0, 1))
	assert.Equal(t, types.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x88}, img.At(1, 1))
}

func TestRead_GrayNotation(t *testing.T) {
	img := MustParse(grayFixture)
	assert.Equal(t, types.RGBA{R: 0x34, G: 0x34, B: 0x34, A: 0xff}, img.At(1, 0))
	assert.Equal(t, types.RGBA{R: 0xcd, G: 0xcd, B: 0xcd, A: 0xff}, img.At(1, 1))
}

func TestRead_EmptyImage(t *testing.T) {
	img, err := Read(strings.NewReader("! SKTEXTSIMPLE\n0 0"))
	require.NoError(t, err)
	assert.Equal(t, 0, img.Width)
	assert.Empty(t, img.Pix)
}

func TestRead_Invalid(t *testing.T) {
	for name, s := range map[string]string{
		"bad header":     "! SKTEXT\n1 1\n0x00",
		"bad dimensions": "! SKTEXTSIMPLE\nwide\n0x00",
		"too many x":     "! SKTEXTSIMPLE\n1 1\n0x00 0x00",
		"too many y":     "! SKTEXTSIMPLE\n1 1\n0x00\n0x00",
		"bad pixel":      "! SKTEXTSIMPLE\n1 1\n0x123",
		"not hex":        "! SKTEXTSIMPLE\n1 1\n0xzz",
		"no prefix":      "! SKTEXTSIMPLE\n1 1\n12345678ff",
	} {
		_, err := Read(strings.NewReader(s))
		assert.Error(t, err, name)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	want := MustParse(colorFixture)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, want))
	assert.Equal(t, colorFixture, buf.String())
}

func TestImageDecode_UsesRegisteredFormat(t *testing.T) {
	img, format, err := image.Decode(strings.NewReader(grayFixture))
	require.NoError(t, err)
	assert.Equal(t, "sktext", format)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	cfg, err := DecodeConfig(strings.NewReader(grayFixture))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Width)
}
