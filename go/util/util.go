// Package util holds small helpers shared by the visual diff packages: file
// handling that never leaves partial artifacts behind, and row chunking for
// the worker pools.
package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.skia.org/visualdiff/go/sklog"
)

// AbsInt returns the absolute value of v.
func AbsInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Close wraps an io.Closer and logs an error if one is returned.
func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		// Don't start the stacktrace here, but at the caller's location
		sklog.ErrorfWithDepth(1, "Failed to Close(): %v", err)
	}
}

// Remove removes the specified file and logs an error if one is returned.
func Remove(name string) {
	if err := os.Remove(name); err != nil {
		sklog.ErrorfWithDepth(1, "Failed to Remove(%s): %v", name, err)
	}
}

// FileExists returns true if something exists at path.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// WithWriteFile provides an interface for writing to a backing file using a
// temporary intermediate file in the same directory, which is renamed over
// the destination only after writeFn and Close succeed. A failed write never
// leaves a partial file at the final path.
func WithWriteFile(file string, writeFn func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".tmp")
	if err != nil {
		return fmt.Errorf("Failed to create temporary file for WithWriteFile: %s", err)
	}
	if err := writeFn(f); err != nil {
		Close(f)
		Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		Remove(f.Name())
		return fmt.Errorf("Failed to close temporary file for WithWriteFile: %s", err)
	}
	if err := os.Rename(f.Name(), file); err != nil {
		Remove(f.Name())
		return fmt.Errorf("Failed to rename temporary file for WithWriteFile: %s", err)
	}
	return nil
}

// WithReadFile opens the given file for reading and runs the given function.
func WithReadFile(file string, fn func(f io.Reader) error) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer Close(f)
	return fn(f)
}

// ChunkIter iterates over [0, length) in chunks of at most chunkSize.
func ChunkIter(length, chunkSize int, fn func(int, int) error) error {
	if chunkSize < 1 {
		return fmt.Errorf("Chunk size may not be less than 1.")
	}
	if length <= 0 {
		return nil
	}
	chunkStart := 0
	chunkEnd := min(length, chunkSize)
	for {
		if err := fn(chunkStart, chunkEnd); err != nil {
			return err
		}
		if chunkEnd == length {
			return nil
		}
		chunkStart = chunkEnd
		chunkEnd = min(length, chunkEnd+chunkSize)
	}
}

// ChunkSize returns the chunk size that splits length items into roughly
// parts equal pieces, never less than 1.
func ChunkSize(length, parts int) int {
	if parts < 1 {
		parts = 1
	}
	size := (length + parts - 1) / parts
	if size < 1 {
		return 1
	}
	return size
}
