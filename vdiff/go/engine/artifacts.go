package engine

import (
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/render"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// WriteArtifacts renders the diff, mask and overlay images whose paths are
// set in opts and hands them to sink. img1 and img2 must be the images c was
// computed from. A nil sink writes PNG files, honoring opts.Overwrite.
func WriteArtifacts(c *Comparison, img1, img2 types.Image, opts options.CompareOptions, sink render.Sink) error {
	opts.Normalize()
	if !opts.RetainMask {
		return nil
	}
	if c == nil || c.Layout == nil {
		return skerr.Fmt("comparison has no diff mask; compare with an artifact path set")
	}
	highlight, err := opts.DiffColor.Parse()
	if err != nil {
		return skerr.Wrapf(err, "diff color")
	}
	if sink == nil {
		sink = render.PNGSink{Overwrite: opts.Overwrite}
	}
	l := *c.Layout
	var artifacts []render.Artifact
	if opts.DiffPath != "" {
		artifacts = append(artifacts, render.Artifact{Path: opts.DiffPath, Image: render.Diff(img1, img2, l, highlight)})
	}
	if opts.MaskPath != "" {
		artifacts = append(artifacts, render.Artifact{Path: opts.MaskPath, Image: render.Mask(l, highlight)})
	}
	if opts.OverlayPath != "" {
		artifacts = append(artifacts, render.Artifact{Path: opts.OverlayPath, Image: render.Overlay(img1, img2, l, highlight, opts.OverlayMaxWidth)})
	}
	return skerr.Wrap(render.WriteAll(sink, artifacts))
}
