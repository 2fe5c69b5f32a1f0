// Package imgio turns encoded images into types.Image and back. PNG, JPEG,
// GIF, BMP, TIFF, WebP and SKTEXTSIMPLE inputs are recognized by content;
// outputs are always PNG.
package imgio

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/go/util"
	_ "go.skia.org/visualdiff/vdiff/go/image/text"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// Decode reads one image from r.
func Decode(r io.Reader) (types.Image, string, error) {
	im, format, err := image.Decode(r)
	if err != nil {
		return types.Image{}, "", skerr.Wrapf(err, "decoding image")
	}
	return types.FromImage(im), format, nil
}

// DecodeBytes decodes an in-memory encoded image.
func DecodeBytes(b []byte) (types.Image, error) {
	img, _, err := Decode(bytes.NewReader(b))
	return img, err
}

// Load decodes the image file at path.
func Load(path string) (types.Image, error) {
	var img types.Image
	err := util.WithReadFile(path, func(r io.Reader) error {
		var err error
		img, _, err = Decode(r)
		return err
	})
	if err != nil {
		return types.Image{}, skerr.Wrapf(err, "loading %s", path)
	}
	return img, nil
}

// EncodePNG writes img to w as a PNG.
func EncodePNG(w io.Writer, img types.Image) error {
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	return skerr.Wrap(encoder.Encode(w, img.ToNRGBA()))
}
