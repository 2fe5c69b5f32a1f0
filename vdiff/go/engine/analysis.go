package engine

import (
	"go.skia.org/visualdiff/go/metrics2"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/cvd"
	"go.skia.org/visualdiff/vdiff/go/fingerprint"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
	"go.skia.org/visualdiff/vdiff/go/wcag"
)

// AnalyzeWCAG grades the low-contrast boundaries of img.
func AnalyzeWCAG(img types.Image, opts options.WcagOptions) (*types.WcagAnalysis, error) {
	defer metrics2.NewTimer("wcag").Stop()
	ret, err := wcag.Analyze(img, opts)
	return ret, skerr.Wrap(err)
}

// AnalyzeCVDWCAG runs AnalyzeWCAG under normal vision and each dichromacy.
func AnalyzeCVDWCAG(img types.Image, opts options.WcagOptions) (*types.CvdWcagReport, error) {
	defer metrics2.NewTimer("wcag_cvd").Stop()
	ret, err := wcag.AnalyzeCVD(img, opts)
	return ret, skerr.Wrap(err)
}

// SimulateCVD returns img as seen with the named deficiency. Names are
// matched case-insensitively and accept short aliases such as "protan".
func SimulateCVD(img types.Image, name string) (types.Image, error) {
	ret, err := cvd.SimulateImageByName(img, name)
	return ret, skerr.Wrap(err)
}

// Fingerprint describes the clusters of r, or returns nil if r has none.
func Fingerprint(r *types.DiffResult) *types.DiffFingerprint {
	return fingerprint.Compute(r)
}

// FingerprintHash returns the grouping key of fp.
func FingerprintHash(fp *types.DiffFingerprint) string {
	return fingerprint.Hash(fp)
}

// FingerprintSimilarity scores two fingerprints in [0,1].
func FingerprintSimilarity(a, b *types.DiffFingerprint) float64 {
	return fingerprint.Similarity(a, b)
}
