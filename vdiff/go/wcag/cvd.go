package wcag

import (
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/cvd"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// AnalyzeCVD runs Analyze on img and on its protanopia, deuteranopia and
// tritanopia simulations.
func AnalyzeCVD(img types.Image, opts options.WcagOptions) (*types.CvdWcagReport, error) {
	normal, err := Analyze(img, opts)
	if err != nil {
		return nil, skerr.Wrapf(err, "normal vision")
	}
	ret := &types.CvdWcagReport{
		Normal:               normal,
		NormalViolationCount: len(normal.Violations),
		WorstCvdType:         types.DichromatTypes[0],
	}
	var simulated [][]types.ContrastViolation
	for _, t := range types.DichromatTypes {
		analysis, err := Analyze(cvd.SimulateImage(img, t), opts)
		if err != nil {
			return nil, skerr.Wrapf(err, "%s", t)
		}
		switch t {
		case types.Protanopia:
			ret.Protanopia = analysis
		case types.Deuteranopia:
			ret.Deuteranopia = analysis
		case types.Tritanopia:
			ret.Tritanopia = analysis
		}
		if len(analysis.Violations) > ret.MaxCvdViolationCount {
			ret.MaxCvdViolationCount = len(analysis.Violations)
			ret.WorstCvdType = t
		}
		simulated = append(simulated, analysis.Violations)
	}
	ret.CvdOnlyViolationCount = countCvdOnly(normal.Violations, simulated)
	return ret, nil
}

// countCvdOnly counts simulated violations that overlap no normal-vision
// violation. A violation seen under several simulations is counted once.
func countCvdOnly(normal []types.ContrastViolation, simulated [][]types.ContrastViolation) int {
	var cvdOnly []types.BoundingBox
	for _, violations := range simulated {
		for _, v := range violations {
			if overlapsAny(v.BoundingBox, normal) || overlapsBox(v.BoundingBox, cvdOnly) {
				continue
			}
			cvdOnly = append(cvdOnly, v.BoundingBox)
		}
	}
	return len(cvdOnly)
}

func overlapsAny(b types.BoundingBox, violations []types.ContrastViolation) bool {
	for _, v := range violations {
		if b.Overlaps(v.BoundingBox) {
			return true
		}
	}
	return false
}

func overlapsBox(b types.BoundingBox, boxes []types.BoundingBox) bool {
	for _, o := range boxes {
		if b.Overlaps(o) {
			return true
		}
	}
	return false
}
