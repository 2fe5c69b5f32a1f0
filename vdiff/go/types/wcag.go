package types

// ContrastViolation is an edge region whose contrast fails at least one
// checked WCAG tier.
type ContrastViolation struct {
	BoundingBox  BoundingBox `json:"boundingBox"`
	Pixels       []Point     `json:"pixels"`
	CenterOfMass [2]float64  `json:"centerOfMass"`
	PixelCount   int         `json:"pixelCount"`

	ForegroundColor     RGB     `json:"foregroundColor"`
	BackgroundColor     RGB     `json:"backgroundColor"`
	ForegroundLuminance float64 `json:"foregroundLuminance"`
	BackgroundLuminance float64 `json:"backgroundLuminance"`

	// ContrastRatio is the mean over the region's edge pixels and always lies
	// within [MinContrastRatio, MaxContrastRatio] and within [1, 21].
	ContrastRatio    float64 `json:"contrastRatio"`
	MinContrastRatio float64 `json:"minContrastRatio"`
	MaxContrastRatio float64 `json:"maxContrastRatio"`

	FailsAANormal  bool `json:"failsAaNormal"`
	FailsAALarge   bool `json:"failsAaLarge"`
	FailsAAANormal bool `json:"failsAaaNormal"`
	FailsAAALarge  bool `json:"failsAaaLarge"`
}

// WcagAnalysis is the contrast report for a single image. The pass counts
// and percentages are over TotalEdges, the number of edge regions found.
type WcagAnalysis struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	TotalEdges int `json:"totalEdges"`

	PassesAANormal  int `json:"passesAaNormal"`
	PassesAALarge   int `json:"passesAaLarge"`
	PassesAAANormal int `json:"passesAaaNormal"`
	PassesAAALarge  int `json:"passesAaaLarge"`

	AANormalPercentage  float64 `json:"aaNormalPercentage"`
	AALargePercentage   float64 `json:"aaLargePercentage"`
	AAANormalPercentage float64 `json:"aaaNormalPercentage"`
	AAALargePercentage  float64 `json:"aaaLargePercentage"`

	Violations []ContrastViolation `json:"violations"`
}

// CvdWcagReport runs the WCAG analysis once per vision type.
type CvdWcagReport struct {
	Normal       *WcagAnalysis `json:"normal"`
	Protanopia   *WcagAnalysis `json:"protanopia"`
	Deuteranopia *WcagAnalysis `json:"deuteranopia"`
	Tritanopia   *WcagAnalysis `json:"tritanopia"`

	NormalViolationCount int `json:"normalViolationCount"`
	// MaxCvdViolationCount is the largest violation count among the
	// simulated types and WorstCvdType names that type.
	MaxCvdViolationCount int     `json:"maxCvdViolationCount"`
	WorstCvdType         CvdType `json:"worstCvdType"`
	// CvdOnlyViolationCount estimates how many violations appear under at
	// least one simulation but not under normal vision. Violations are
	// matched by bounding-box overlap.
	CvdOnlyViolationCount int `json:"cvdOnlyViolationCount"`
}

// ForType returns the analysis for a dichromat type, or nil.
func (r *CvdWcagReport) ForType(t CvdType) *WcagAnalysis {
	switch t {
	case Protanopia:
		return r.Protanopia
	case Deuteranopia:
		return r.Deuteranopia
	case Tritanopia:
		return r.Tritanopia
	}
	return nil
}
