package types

import (
	"strings"

	"go.skia.org/visualdiff/go/skerr"
)

// CvdType is a simulated color vision deficiency.
type CvdType int

const (
	Protanopia CvdType = iota
	Deuteranopia
	Tritanopia
	Achromatopsia
)

// DichromatTypes are the vision types a CVD-aware WCAG report covers, in
// report order.
var DichromatTypes = []CvdType{Protanopia, Deuteranopia, Tritanopia}

// String representation for CvdTypes. The order must match order above.
var cvdTypeStringRepresentation = []string{
	"protanopia",
	"deuteranopia",
	"tritanopia",
	"achromatopsia",
}

var cvdTypeAliases = map[string]CvdType{
	"protanopia":    Protanopia,
	"protan":        Protanopia,
	"protanope":     Protanopia,
	"deuteranopia":  Deuteranopia,
	"deutan":        Deuteranopia,
	"deuteranope":   Deuteranopia,
	"tritanopia":    Tritanopia,
	"tritan":        Tritanopia,
	"tritanope":     Tritanopia,
	"achromatopsia": Achromatopsia,
	"achroma":       Achromatopsia,
	"achromat":      Achromatopsia,
	"monochromacy":  Achromatopsia,
}

func (c CvdType) String() string {
	if c < 0 || int(c) >= len(cvdTypeStringRepresentation) {
		return "unknown"
	}
	return cvdTypeStringRepresentation[c]
}

// ParseCvdType resolves a canonical name or alias, case-insensitively.
func ParseCvdType(name string) (CvdType, error) {
	t, ok := cvdTypeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, skerr.Wrapf(ErrUnknownCvdType, "%q is not one of protanopia, deuteranopia, tritanopia, achromatopsia (or protan, deutan, tritan, achroma)", name)
	}
	return t, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c CvdType) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(cvdTypeStringRepresentation) {
		return nil, skerr.Wrapf(ErrUnknownCvdType, "value %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CvdType) UnmarshalText(b []byte) error {
	t, err := ParseCvdType(string(b))
	if err != nil {
		return err
	}
	*c = t
	return nil
}
