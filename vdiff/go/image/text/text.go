// Package text reads and writes SKTEXTSIMPLE, a plain text image format used
// for small hand-written fixtures:
//
//	! SKTEXTSIMPLE
//	width height
//	0x000000ff 0xffffffff ...
//	0xdd 0x88 ...
//
// Each pixel is either 0xRRGGBBAA or the grayscale shorthand 0xXX, which is
// the opaque color 0xXXXXXXff. Importing the package registers the format
// with image.Decode.
package text

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"

	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/types"
)

const header = "! SKTEXTSIMPLE\n"

func readSize(r *bufio.Reader) (int, int, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, skerr.Wrapf(err, "reading SKTEXT header")
	}
	if line != header {
		return 0, 0, skerr.Fmt("not an SKTEXT file: header %q", line)
	}
	line, err = r.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, 0, skerr.Wrapf(err, "reading SKTEXT dimensions")
	}
	var w, h int
	if n, err := fmt.Sscanf(line, "%d %d", &w, &h); err != nil || n != 2 {
		return 0, 0, skerr.Fmt("not an SKTEXT file: bad dimensions line %q", line)
	}
	if w < 0 || h < 0 {
		return 0, 0, skerr.Fmt("negative SKTEXT dimensions %dx%d", w, h)
	}
	return w, h, nil
}

func parsePixel(tok string) (types.RGBA, error) {
	if !strings.HasPrefix(tok, "0x") || (len(tok) != 4 && len(tok) != 10) {
		return types.RGBA{}, skerr.Fmt("invalid pixel %q, want 0xRRGGBBAA or 0xXX", tok)
	}
	v, err := strconv.ParseUint(tok[2:], 16, 32)
	if err != nil {
		return types.RGBA{}, skerr.Wrapf(err, "parsing pixel %q", tok)
	}
	if len(tok) == 4 {
		g := uint8(v)
		return types.RGBA{R: g, G: g, B: g, A: 0xff}, nil
	}
	return types.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Read parses an SKTEXT image. Missing trailing pixels stay transparent.
func Read(r io.Reader) (types.Image, error) {
	br := bufio.NewReader(r)
	w, h, err := readSize(br)
	if err != nil {
		return types.Image{}, err
	}
	img := types.NewImage(w, h)
	for y := 0; ; y++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return types.Image{}, skerr.Wrapf(err, "reading SKTEXT row %d", y)
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if y >= h {
				return types.Image{}, skerr.Fmt("too many rows: want %d", h)
			}
			if len(fields) > w {
				return types.Image{}, skerr.Fmt("row %d has %d pixels, want %d", y, len(fields), w)
			}
		}
		for x, tok := range fields {
			c, err := parsePixel(tok)
			if err != nil {
				return types.Image{}, skerr.Wrapf(err, "row %d", y)
			}
			img.Set(x, y, c)
		}
		if err == io.EOF {
			return img, nil
		}
	}
}

// Decode is Read for the image package registry.
func Decode(r io.Reader) (image.Image, error) {
	img, err := Read(r)
	if err != nil {
		return nil, err
	}
	return img.ToNRGBA(), nil
}

// DecodeConfig returns the dimensions without reading the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	w, h, err := readSize(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: w, Height: h}, nil
}

// Write encodes img in SKTEXT form, always using the 0xRRGGBBAA notation.
func Write(w io.Writer, img types.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s%d %d\n", header, img.Width, img.Height); err != nil {
		return skerr.Wrap(err)
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if x > 0 {
				_ = bw.WriteByte(' ')
			}
			c := img.At(x, y)
			if _, err := fmt.Fprintf(bw, "0x%02x%02x%02x%02x", c.R, c.G, c.B, c.A); err != nil {
				return skerr.Wrap(err)
			}
		}
		if y < img.Height-1 {
			_ = bw.WriteByte('\n')
		}
	}
	return skerr.Wrap(bw.Flush())
}

// MustParse parses s and panics on error. Only for test data.
func MustParse(s string) types.Image {
	img, err := Read(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid SKTEXT fixture: %s", err))
	}
	return img
}

func init() {
	image.RegisterFormat("sktext", header, Decode, DecodeConfig)
}
