package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIter_CoversRangeInOrder(t *testing.T) {
	var chunks [][2]int
	require.NoError(t, ChunkIter(10, 4, func(start, end int) error {
		chunks = append(chunks, [2]int{start, end})
		return nil
	}))
	assert.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, chunks)
}

func TestChunkIter_ZeroLength_NoCalls(t *testing.T) {
	called := false
	require.NoError(t, ChunkIter(0, 4, func(int, int) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}

func TestChunkIter_InvalidChunkSize_Error(t *testing.T) {
	assert.Error(t, ChunkIter(10, 0, func(int, int) error { return nil }))
}

func TestChunkSize(t *testing.T) {
	assert.Equal(t, 3, ChunkSize(10, 4))
	assert.Equal(t, 1, ChunkSize(2, 8))
	assert.Equal(t, 10, ChunkSize(10, 0))
}

func TestWithWriteFile_Success_WritesContents(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WithWriteFile(dst, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestWithWriteFile_WriterFails_NoFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	err := WithWriteFile(dst, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.False(t, FileExists(dst))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAbsInt(t *testing.T) {
	assert.Equal(t, 3, AbsInt(-3))
	assert.Equal(t, 3, AbsInt(3))
	assert.Equal(t, 0, AbsInt(0))
}
