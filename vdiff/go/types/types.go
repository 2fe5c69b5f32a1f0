// Package types holds the records produced and consumed by the visual diff
// engine. All of them are plain data, created fresh per call and owned by the
// caller once returned.
//
// A nil slice or pointer field means the corresponding analysis was not
// requested. An empty, non-nil slice means it was computed and found nothing.
package types

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DiffPixel is a single differing pixel and its severity.
type DiffPixel struct {
	X         int   `json:"x"`
	Y         int   `json:"y"`
	Intensity uint8 `json:"intensity"`
}

// BoundingBox is the minimal rectangle enclosing a set of pixels.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (b BoundingBox) Right() int { return b.X + b.Width }

// Bottom returns the exclusive bottom edge.
func (b BoundingBox) Bottom() int { return b.Y + b.Height }

// Area returns Width*Height.
func (b BoundingBox) Area() int { return b.Width * b.Height }

// Union returns the smallest box enclosing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	x0, y0 := min(b.X, o.X), min(b.Y, o.Y)
	x1, y1 := max(b.Right(), o.Right()), max(b.Bottom(), o.Bottom())
	return BoundingBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Overlaps reports whether the two boxes share at least one pixel.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// HeightDiff is present on a DiffResult only when the image heights differ.
// ExtraPixels is always |Height1-Height2| * width.
type HeightDiff struct {
	Height1     int `json:"height1"`
	Height2     int `json:"height2"`
	ExtraPixels int `json:"extraPixels"`
}

// DiffCluster is a connected group of differing pixels.
type DiffCluster struct {
	PixelCount    int                    `json:"pixelCount"`
	CenterOfMass  [2]float64             `json:"centerOfMass"`
	AvgIntensity  float64                `json:"avgIntensity"`
	BoundingBox   BoundingBox            `json:"boundingBox"`
	Accessibility *AccessibilityMetadata `json:"accessibilityMetadata,omitempty"`
}

// CvdVisibility describes how visible a cluster's color change remains for
// one simulated color vision deficiency.
type CvdVisibility struct {
	Type CvdType `json:"type"`
	// DeltaE is the CIEDE2000 distance between the simulated before and
	// after colors.
	DeltaE float64 `json:"deltaE"`
	// VisibilityLoss is the percentage of the normal-vision delta lost under
	// simulation, clamped to [0,100].
	VisibilityLoss float64 `json:"visibilityLoss"`
	// Reduced is set when VisibilityLoss reaches colorBlindnessThreshold.
	Reduced bool `json:"reduced"`
}

// AccessibilityMetadata describes the accessibility impact of one cluster.
type AccessibilityMetadata struct {
	BaselineColor RGB     `json:"baselineColor"`
	CurrentColor  RGB     `json:"currentColor"`
	ColorDeltaE   float64 `json:"colorDeltaE"`
	// BaselineContrast and CurrentContrast are the WCAG contrast ratios of the
	// cluster's average color against the pixels bordering its bounding box.
	BaselineContrast float64 `json:"baselineContrast"`
	CurrentContrast  float64 `json:"currentContrast"`
	// IntroducedContrastFailure is set when the baseline met WCAG AA for
	// normal text and the current image does not.
	IntroducedContrastFailure bool            `json:"introducedContrastFailure"`
	ColorBlindness            []CvdVisibility `json:"colorBlindness,omitempty"`
}

// IntensityStats summarizes the intensity distribution of all diff pixels.
type IntensityStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
}

// DiffResult is everything a single comparison produced.
type DiffResult struct {
	// Width and Height are the compared extent: the common width and the
	// larger of the two heights.
	Width  int `json:"width"`
	Height int `json:"height"`
	// TotalPixels is Width*Height, even when the scan stopped early.
	TotalPixels int `json:"totalPixels"`
	// DiffPixels is the raw count of differing pixels, unaffected by noise
	// filtering, including height-extra pixels.
	DiffPixels      int     `json:"diffPixels"`
	DiffPercentage  float64 `json:"diffPercentage"`
	AAPixelsIgnored int     `json:"aaPixelsIgnored"`
	// IsDifferent is decided after noise filtering.
	IsDifferent bool `json:"isDifferent"`
	// Partial is set when the scan stopped at maxDiffs. Counts and the
	// bounding box then only cover the pixels seen.
	Partial bool `json:"partial"`

	BoundingBox    *BoundingBox    `json:"boundingBox"`
	HeightDiff     *HeightDiff     `json:"heightDiff"`
	DiffClusters   []DiffCluster   `json:"diffClusters"`
	DiffPixelList  []DiffPixel     `json:"diffPixelList"`
	IntensityStats *IntensityStats `json:"intensityStats"`
	SSIM           *float64        `json:"ssim"`
	GMSD           *float64        `json:"gmsd"`
}
