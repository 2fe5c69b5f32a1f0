package types

import "errors"

// The failure kinds a comparison or analysis can report. Call sites wrap
// these with skerr.Wrapf and the offending values, so callers should test
// with errors.Is.
var (
	// ErrInvalidColor is returned for malformed pixel data.
	ErrInvalidColor = errors.New("invalid color")

	// ErrDimensionMismatch is returned when the widths of two compared images
	// differ. Height differences are supported and never produce this error.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnknownCvdType is returned for an unrecognized vision type name.
	ErrUnknownCvdType = errors.New("unknown color vision deficiency type")

	// ErrArtifactWrite is returned when an artifact destination exists and
	// overwriting was not requested, or when persisting it fails.
	ErrArtifactWrite = errors.New("artifact write error")

	// ErrUnsupportedComparison marks a score that cannot be computed for the
	// given inputs. Compare degrades such scores to nil instead of failing.
	ErrUnsupportedComparison = errors.New("unsupported comparison")
)
