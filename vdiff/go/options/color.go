package options

import (
	"strconv"
	"strings"

	"github.com/flynn/json5"
	"github.com/lucasb-eyer/go-colorful"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/colormodel"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// ColorSpec is a highlight color written either as a hex string ("#f00",
// "#ff0000", "#ff000080") or as 8-bit components ("255,0,0" or
// "255,0,0,128"). In JSON it may also be an array, [255, 0, 0, 128].
// A missing alpha means opaque.
type ColorSpec string

// Parse returns the color the spec describes.
func (c ColorSpec) Parse() (types.RGBA, error) {
	s := strings.TrimSpace(string(c))
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return types.RGBA{}, skerr.Wrapf(types.ErrInvalidColor, "color %q is neither #hex nor r,g,b[,a]", s)
	}
	comps := [4]int{0, 0, 0, 0xff}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return types.RGBA{}, skerr.Wrapf(types.ErrInvalidColor, "component %d of color %q is not an integer", i, s)
		}
		comps[i] = v
	}
	ret, err := colormodel.NewRGBA(comps[0], comps[1], comps[2], comps[3])
	if err != nil {
		return types.RGBA{}, skerr.Wrapf(err, "color %q", s)
	}
	return ret, nil
}

func parseHex(s string) (types.RGBA, error) {
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return types.RGBA{}, skerr.Wrapf(types.ErrInvalidColor, "alpha of color %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return types.RGBA{}, skerr.Wrapf(types.ErrInvalidColor, "color %q: %s", s, err)
	}
	r, g, b := col.RGB255()
	return types.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// UnmarshalJSON accepts a string or an array of 3 or 4 integers.
func (c *ColorSpec) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		var comps []int
		if err := json5.Unmarshal(b, &comps); err != nil {
			return skerr.Wrapf(types.ErrInvalidColor, "color array %s: %s", trimmed, err)
		}
		strs := make([]string, 0, len(comps))
		for _, v := range comps {
			strs = append(strs, strconv.Itoa(v))
		}
		*c = ColorSpec(strings.Join(strs, ","))
	} else {
		var s string
		if err := json5.Unmarshal(b, &s); err != nil {
			return skerr.Wrapf(types.ErrInvalidColor, "color %s: %s", trimmed, err)
		}
		*c = ColorSpec(s)
	}
	_, err := c.Parse()
	return err
}

// String implements pflag.Value.
func (c *ColorSpec) String() string {
	return string(*c)
}

// Set implements pflag.Value.
func (c *ColorSpec) Set(s string) error {
	spec := ColorSpec(s)
	if _, err := spec.Parse(); err != nil {
		return err
	}
	*c = spec
	return nil
}

// Type implements pflag.Value.
func (c *ColorSpec) Type() string {
	return "color"
}
