package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.skia.org/visualdiff/vdiff/go/imgio"
	"go.skia.org/visualdiff/vdiff/go/render"
	"go.skia.org/visualdiff/vdiff/go/types"
)

func writeImage(t *testing.T, path string, w, h int, block bool) {
	img := types.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := types.RGBA{R: 255, G: 255, B: 255, A: 255}
			if block && x >= 2 && x < 5 && y >= 2 && y < 5 {
				c = types.RGBA{R: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	require.NoError(t, render.PNGSink{}.Write(img, path))
}

func run(t *testing.T, args ...string) (string, error) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fixtures(t *testing.T) (string, string, string) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")
	writeImage(t, a, 10, 10, false)
	writeImage(t, b, 10, 10, true)
	return dir, a, b
}

func TestCompare_JSON(t *testing.T) {
	dir, a, b := fixtures(t)
	diff := filepath.Join(dir, "diff.png")
	out, err := run(t, "compare", a, b, "--json", "--clusters", "--diff", diff)
	require.NoError(t, err)

	var r types.DiffResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 9, r.DiffPixels)
	assert.True(t, r.IsDifferent)
	require.Len(t, r.DiffClusters, 1)
	assert.FileExists(t, diff)
}

func TestCompare_Summary_FailOnDiff(t *testing.T) {
	_, a, b := fixtures(t)
	out, err := run(t, "compare", a, b, "--min_cluster_size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "different: 9 of 100 pixels differ")

	_, err = run(t, "compare", a, a, "--fail_on_diff")
	require.NoError(t, err)
	_, err = run(t, "compare", a, b, "--fail_on_diff")
	assert.Error(t, err)
}

func TestCompare_ConfigFile_FlagsTakePrecedence(t *testing.T) {
	dir, a, b := fixtures(t)
	cfg := filepath.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("minClusterSize: 50\nincludeClusters: true\n"), 0644))

	out, err := run(t, "compare", a, b, "--json", "--config", cfg)
	require.NoError(t, err)
	var r types.DiffResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.False(t, r.IsDifferent)
	assert.NotNil(t, r.DiffClusters)

	out, err = run(t, "compare", a, b, "--json", "--config", cfg, "--min_cluster_size", "1")
	require.NoError(t, err)
	r = types.DiffResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.IsDifferent)
	assert.Len(t, r.DiffClusters, 1)
}

func TestCompare_WrongArgs(t *testing.T) {
	_, err := run(t, "compare", "only-one.png")
	assert.Error(t, err)
}

func TestCvd_WritesSimulation(t *testing.T) {
	dir, _, b := fixtures(t)
	out := filepath.Join(dir, "gray.png")
	_, err := run(t, "cvd", b, "--type", "achromatopsia", "--out", out)
	require.NoError(t, err)
	img, err := imgio.Load(out)
	require.NoError(t, err)
	c := img.At(3, 3)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)

	_, err = run(t, "cvd", b, "--type", "nope", "--out", filepath.Join(dir, "x.png"))
	assert.Error(t, err)
}

func TestWcag_JSON(t *testing.T) {
	_, a, _ := fixtures(t)
	out, err := run(t, "wcag", a, "--json", "--cvd")
	require.NoError(t, err)
	var r types.CvdWcagReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.NotNil(t, r.Normal)
	assert.Equal(t, 0, r.Normal.TotalEdges)
	assert.Equal(t, 0, r.CvdOnlyViolationCount)
}

func TestFingerprint_GroupsPairs(t *testing.T) {
	_, a, b := fixtures(t)
	out, err := run(t, "fingerprint", a, b, a, b, a, a, "--min_cluster_size", "1", "--json")
	require.NoError(t, err)
	var rows []fingerprintRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	require.NotNil(t, rows[0].Fingerprint)
	assert.Equal(t, rows[0].Group, rows[1].Group)
	assert.Equal(t, rows[0].Fingerprint.Hash, rows[1].Fingerprint.Hash)
	assert.Nil(t, rows[2].Fingerprint)
	assert.Equal(t, -1, rows[2].Group)

	_, err = run(t, "fingerprint", a)
	assert.Error(t, err)
}
