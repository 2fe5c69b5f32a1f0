// Package options contains the flat configuration records for comparisons
// and WCAG analysis.
//
// Every field has a default, see DefaultCompareOptions and
// DefaultWcagOptions. Fields that imply others are resolved once by
// Normalize, before any component runs:
//
//	CheckColorBlindness       implies IncludeAccessibilityData
//	IncludeAccessibilityData  implies IncludeClusters
//	MergeClusters             implies IncludeClusters
//	any artifact path set     implies RetainMask
package options

import (
	"go.skia.org/visualdiff/go/skerr"
)

// Defaults for CompareOptions.
const (
	DefaultThreshold               = 2.0
	DefaultMinClusterSize          = 2
	DefaultYBandTolerance          = 5
	DefaultHorizontalDistance      = 15
	DefaultMaxHeightRatio          = 2.0
	DefaultMaxWidthRatio           = 3.0
	DefaultColorBlindnessThreshold = 30.0
	DefaultDiffColor               = "#ff0000"
)

// Defaults for WcagOptions.
const (
	DefaultEdgeThreshold        = 60
	DefaultMinRegionSize        = 50
	DefaultMaxContrastThreshold = 3.5
)

// MergeOptions controls the text-aware merge of nearby clusters.
type MergeOptions struct {
	// YBandTolerance is how far apart, in pixels, the vertical ranges of two
	// clusters may be and still be considered on the same line.
	YBandTolerance int `json:"yBandTolerance"`
	// HorizontalDistance is the largest horizontal gap between bounding boxes.
	HorizontalDistance int `json:"horizontalDistance"`
	// MaxHeightRatio and MaxWidthRatio bound max/min of the two boxes'
	// heights and widths.
	MaxHeightRatio float64 `json:"maxHeightRatio"`
	MaxWidthRatio  float64 `json:"maxWidthRatio"`
}

// CompareOptions configures a single comparison.
type CompareOptions struct {
	// Threshold is the CIEDE2000 delta-E above which two pixels differ.
	Threshold float64 `json:"threshold"`
	// Antialiasing enables the anti-aliasing heuristic.
	Antialiasing bool `json:"antialiasing"`
	// MaxDiffs stops the scan once this many different pixels have been seen.
	// Zero means no limit.
	MaxDiffs int `json:"maxDiffs"`

	IncludeClusters bool `json:"includeClusters"`
	// MinClusterSize is the smallest cluster that is not noise.
	MinClusterSize int          `json:"minClusterSize"`
	MergeClusters  bool         `json:"mergeClusters"`
	Merge          MergeOptions `json:"merge"`

	IncludeDiffPixels     bool `json:"includeDiffPixels"`
	IncludeIntensityStats bool `json:"includeIntensityStats"`
	IncludeSSIM           bool `json:"includeSSIM"`
	IncludeGMSD           bool `json:"includeGMSD"`

	IncludeAccessibilityData bool    `json:"includeAccessibilityData"`
	CheckColorBlindness      bool    `json:"checkColorBlindness"`
	ColorBlindnessThreshold  float64 `json:"colorBlindnessThreshold"`

	// DiffColor is the highlight color of the diff and mask artifacts.
	DiffColor ColorSpec `json:"diffColor"`
	// Artifact destinations. Empty means the artifact is not produced.
	DiffPath    string `json:"diffPath"`
	MaskPath    string `json:"maskPath"`
	OverlayPath string `json:"overlayPath"`
	Overwrite   bool   `json:"overwrite"`
	// OverlayMaxWidth shrinks the side-by-side overlay to at most this width.
	// Zero keeps the full size.
	OverlayMaxWidth int `json:"overlayMaxWidth"`

	// Workers bounds the scan and scoring parallelism. Zero means one worker
	// per CPU.
	Workers int `json:"workers"`

	// RetainMask is set by Normalize when any artifact will be rendered.
	RetainMask bool `json:"-"`
}

// WcagOptions configures a WCAG contrast analysis.
type WcagOptions struct {
	// EdgeThreshold is the smallest luminance gradient, on a 0-255 scale,
	// that counts as an edge.
	EdgeThreshold int `json:"edgeThreshold"`
	// MinRegionSize drops edge regions with fewer pixels.
	MinRegionSize int `json:"minRegionSize"`
	// MaxContrastThreshold drops regions whose mean contrast is above it.
	MaxContrastThreshold float64 `json:"maxContrastThreshold"`
	CheckAA              bool    `json:"checkAA"`
	CheckAAA             bool    `json:"checkAAA"`
}

// DefaultMergeOptions returns the default merge tolerances.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		YBandTolerance:     DefaultYBandTolerance,
		HorizontalDistance: DefaultHorizontalDistance,
		MaxHeightRatio:     DefaultMaxHeightRatio,
		MaxWidthRatio:      DefaultMaxWidthRatio,
	}
}

// DefaultCompareOptions returns CompareOptions with every field defaulted.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{
		Threshold:               DefaultThreshold,
		Antialiasing:            true,
		MinClusterSize:          DefaultMinClusterSize,
		Merge:                   DefaultMergeOptions(),
		ColorBlindnessThreshold: DefaultColorBlindnessThreshold,
		DiffColor:               ColorSpec(DefaultDiffColor),
	}
}

// DefaultWcagOptions returns WcagOptions with every field defaulted.
func DefaultWcagOptions() WcagOptions {
	return WcagOptions{
		EdgeThreshold:        DefaultEdgeThreshold,
		MinRegionSize:        DefaultMinRegionSize,
		MaxContrastThreshold: DefaultMaxContrastThreshold,
		CheckAA:              true,
		CheckAAA:             false,
	}
}

// Normalize resolves the implied fields. It is idempotent.
func (o *CompareOptions) Normalize() {
	if o.CheckColorBlindness {
		o.IncludeAccessibilityData = true
	}
	if o.IncludeAccessibilityData || o.MergeClusters {
		o.IncludeClusters = true
	}
	if o.DiffPath != "" || o.MaskPath != "" || o.OverlayPath != "" {
		o.RetainMask = true
	}
	if o.DiffColor == "" {
		o.DiffColor = DefaultDiffColor
	}
}

// Validate returns an error describing the first out of range field.
func (o CompareOptions) Validate() error {
	if o.Threshold < 0 {
		return skerr.Fmt("threshold must be >= 0, got %g", o.Threshold)
	}
	if o.MaxDiffs < 0 {
		return skerr.Fmt("maxDiffs must be >= 0, got %d", o.MaxDiffs)
	}
	if o.MinClusterSize < 0 {
		return skerr.Fmt("minClusterSize must be >= 0, got %d", o.MinClusterSize)
	}
	if o.Merge.YBandTolerance < 0 || o.Merge.HorizontalDistance < 0 {
		return skerr.Fmt("merge tolerances must be >= 0, got yBandTolerance=%d horizontalDistance=%d", o.Merge.YBandTolerance, o.Merge.HorizontalDistance)
	}
	if o.Merge.MaxHeightRatio < 1 || o.Merge.MaxWidthRatio < 1 {
		return skerr.Fmt("merge ratios must be >= 1, got maxHeightRatio=%g maxWidthRatio=%g", o.Merge.MaxHeightRatio, o.Merge.MaxWidthRatio)
	}
	if o.ColorBlindnessThreshold < 0 || o.ColorBlindnessThreshold > 100 {
		return skerr.Fmt("colorBlindnessThreshold must be in [0,100], got %g", o.ColorBlindnessThreshold)
	}
	if o.OverlayMaxWidth < 0 {
		return skerr.Fmt("overlayMaxWidth must be >= 0, got %d", o.OverlayMaxWidth)
	}
	if o.Workers < 0 {
		return skerr.Fmt("workers must be >= 0, got %d", o.Workers)
	}
	if o.DiffColor != "" {
		if _, err := o.DiffColor.Parse(); err != nil {
			return skerr.Wrapf(err, "diffColor")
		}
	}
	return nil
}

// Validate returns an error describing the first out of range field.
func (o WcagOptions) Validate() error {
	if o.EdgeThreshold < 0 {
		return skerr.Fmt("edgeThreshold must be >= 0, got %d", o.EdgeThreshold)
	}
	if o.MinRegionSize < 0 {
		return skerr.Fmt("minRegionSize must be >= 0, got %d", o.MinRegionSize)
	}
	if o.MaxContrastThreshold < 1 {
		return skerr.Fmt("maxContrastThreshold must be >= 1, got %g", o.MaxContrastThreshold)
	}
	return nil
}
