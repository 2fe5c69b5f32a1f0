package engine

import (
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// AsyncResult carries the outcome of CompareAsync.
type AsyncResult struct {
	Comparison *Comparison
	Err        error
}

// CompareAsync runs Compare on its own goroutine. The channel receives
// exactly one value and is then closed. The result is identical to what
// Compare returns for the same arguments.
func CompareAsync(img1, img2 types.Image, opts options.CompareOptions) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		defer close(ch)
		c, err := Compare(img1, img2, opts)
		ch <- AsyncResult{Comparison: c, Err: err}
	}()
	return ch
}
