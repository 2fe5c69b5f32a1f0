package options

import (
	"github.com/spf13/pflag"
)

// RegisterCompareFlags registers command line flags for the fields of o,
// using the current values of o as the flag defaults.
func RegisterCompareFlags(fs *pflag.FlagSet, o *CompareOptions) {
	fs.Float64Var(&o.Threshold, "threshold", o.Threshold, "CIEDE2000 delta-E above which two pixels are different.")
	fs.BoolVar(&o.Antialiasing, "antialiasing", o.Antialiasing, "Ignore pixels that look like anti-aliasing artifacts.")
	fs.IntVar(&o.MaxDiffs, "max_diffs", o.MaxDiffs, "Stop scanning after this many different pixels. 0 means no limit.")
	fs.BoolVar(&o.IncludeClusters, "clusters", o.IncludeClusters, "Group different pixels into clusters.")
	fs.IntVar(&o.MinClusterSize, "min_cluster_size", o.MinClusterSize, "Clusters smaller than this are treated as noise.")
	fs.BoolVar(&o.MergeClusters, "merge_clusters", o.MergeClusters, "Merge clusters that look like the same line of text.")
	fs.IntVar(&o.Merge.YBandTolerance, "y_band_tolerance", o.Merge.YBandTolerance, "Vertical tolerance in pixels for merging clusters.")
	fs.IntVar(&o.Merge.HorizontalDistance, "horizontal_distance", o.Merge.HorizontalDistance, "Largest horizontal gap in pixels for merging clusters.")
	fs.Float64Var(&o.Merge.MaxHeightRatio, "max_height_ratio", o.Merge.MaxHeightRatio, "Largest height ratio for merging clusters.")
	fs.Float64Var(&o.Merge.MaxWidthRatio, "max_width_ratio", o.Merge.MaxWidthRatio, "Largest width ratio for merging clusters.")
	fs.BoolVar(&o.IncludeDiffPixels, "diff_pixels", o.IncludeDiffPixels, "Include every different pixel in the result.")
	fs.BoolVar(&o.IncludeIntensityStats, "intensity_stats", o.IncludeIntensityStats, "Include diff intensity statistics.")
	fs.BoolVar(&o.IncludeSSIM, "ssim", o.IncludeSSIM, "Compute the structural similarity score.")
	fs.BoolVar(&o.IncludeGMSD, "gmsd", o.IncludeGMSD, "Compute the gradient magnitude similarity deviation.")
	fs.BoolVar(&o.IncludeAccessibilityData, "accessibility", o.IncludeAccessibilityData, "Attach accessibility metadata to each cluster.")
	fs.BoolVar(&o.CheckColorBlindness, "color_blindness", o.CheckColorBlindness, "Check cluster visibility under color vision deficiencies.")
	fs.Float64Var(&o.ColorBlindnessThreshold, "color_blindness_threshold", o.ColorBlindnessThreshold, "Visibility loss percentage that flags a cluster.")
	fs.Var(&o.DiffColor, "diff_color", "Highlight color, #rrggbb[aa] or r,g,b[,a].")
	fs.StringVar(&o.DiffPath, "diff", o.DiffPath, "Write the diff image to this path.")
	fs.StringVar(&o.MaskPath, "mask", o.MaskPath, "Write the mask image to this path.")
	fs.StringVar(&o.OverlayPath, "overlay", o.OverlayPath, "Write the side-by-side overlay image to this path.")
	fs.BoolVar(&o.Overwrite, "overwrite", o.Overwrite, "Replace existing artifact files.")
	fs.IntVar(&o.OverlayMaxWidth, "overlay_max_width", o.OverlayMaxWidth, "Downscale the overlay to at most this width. 0 keeps full size.")
	fs.IntVar(&o.Workers, "workers", o.Workers, "Number of parallel workers. 0 means one per CPU.")
}

// RegisterWcagFlags registers command line flags for the fields of o, using
// the current values of o as the flag defaults.
func RegisterWcagFlags(fs *pflag.FlagSet, o *WcagOptions) {
	fs.IntVar(&o.EdgeThreshold, "edge_threshold", o.EdgeThreshold, "Smallest luminance gradient (0-255) that counts as an edge.")
	fs.IntVar(&o.MinRegionSize, "min_region_size", o.MinRegionSize, "Edge regions with fewer pixels are ignored.")
	fs.Float64Var(&o.MaxContrastThreshold, "max_contrast_threshold", o.MaxContrastThreshold, "Regions with a higher mean contrast are treated as gradients.")
	fs.BoolVar(&o.CheckAA, "check_aa", o.CheckAA, "Report WCAG AA failures.")
	fs.BoolVar(&o.CheckAAA, "check_aaa", o.CheckAAA, "Report WCAG AAA failures.")
}
