package render

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/go/sklog"
	"go.skia.org/visualdiff/go/util"
	"go.skia.org/visualdiff/vdiff/go/imgio"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// Sink persists a rendered image at a destination path.
type Sink interface {
	Write(img types.Image, path string) error
}

// PNGSink writes PNG files. The file appears at path only once it is
// complete.
type PNGSink struct {
	// Overwrite allows replacing an existing file.
	Overwrite bool
}

// Write implements Sink. Failures wrap types.ErrArtifactWrite.
func (s PNGSink) Write(img types.Image, path string) error {
	if !s.Overwrite && util.FileExists(path) {
		return skerr.Wrapf(types.ErrArtifactWrite, "%s already exists and overwrite is not set", path)
	}
	err := util.WithWriteFile(path, func(w io.Writer) error {
		return imgio.EncodePNG(w, img)
	})
	if err != nil {
		return skerr.Wrapf(types.ErrArtifactWrite, "writing %s: %s", path, err)
	}
	sklog.Debugf("Wrote %dx%d artifact to %s", img.Width, img.Height, path)
	return nil
}

// Artifact is an image waiting to be persisted.
type Artifact struct {
	Path  string
	Image types.Image
}

// WriteAll writes every artifact concurrently. Every write is attempted; the
// returned error, if any, aggregates all failures.
func WriteAll(sink Sink, artifacts []Artifact) error {
	var g multierror.Group
	for _, a := range artifacts {
		a := a // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			return sink.Write(a.Image, a.Path)
		})
	}
	return g.Wait().ErrorOrNil()
}
