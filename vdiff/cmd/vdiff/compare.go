package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/engine"
	"go.skia.org/visualdiff/vdiff/go/imgio"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// compareEnv provides the environment for the compare command.
type compareEnv struct {
	opts       options.CompareOptions
	configFile string
	jsonOut    bool
	failOnDiff bool
}

// getCompareCmd returns the definition of the compare command.
func getCompareCmd() *cobra.Command {
	env := &compareEnv{opts: options.DefaultCompareOptions()}
	cmd := &cobra.Command{
		Use:   "compare BEFORE AFTER",
		Short: "Compare two images",
		Long: `
Compares AFTER against BEFORE and prints a summary. Images must have the same
width; a height difference is reported as changed rows.

Options may come from a JSON5 or YAML --config file; flags given on the
command line take precedence over it.
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.configFile != "" {
				base, err := options.LoadCompareOptions(env.configFile)
				if err != nil {
					return err
				}
				if err := reloadWithFlags(cmd.Flags(), &env.opts, base); err != nil {
					return err
				}
			}
			return env.run(cmd.OutOrStdout(), args[0], args[1])
		},
	}
	options.RegisterCompareFlags(cmd.Flags(), &env.opts)
	cmd.Flags().StringVar(&env.configFile, "config", "", "JSON5 or YAML file with compare options.")
	cmd.Flags().BoolVar(&env.jsonOut, "json", false, "Print the full result as JSON.")
	cmd.Flags().BoolVar(&env.failOnDiff, "fail_on_diff", false, "Exit with an error when the images differ.")
	return cmd
}

func (c *compareEnv) run(w io.Writer, before, after string) error {
	img1, err := imgio.Load(before)
	if err != nil {
		return err
	}
	img2, err := imgio.Load(after)
	if err != nil {
		return err
	}
	cmp, err := engine.Compare(img1, img2, c.opts)
	if err != nil {
		return err
	}
	if err := engine.WriteArtifacts(cmp, img1, img2, c.opts, nil); err != nil {
		return err
	}
	if c.jsonOut {
		err = writeJSON(w, cmp.Result)
	} else {
		err = printSummary(w, cmp.Result)
	}
	if err != nil {
		return err
	}
	if c.failOnDiff && cmp.Result.IsDifferent {
		return skerr.Fmt("%s and %s differ", before, after)
	}
	return nil
}

func printSummary(w io.Writer, r *types.DiffResult) error {
	verdict := "identical"
	if r.IsDifferent {
		verdict = "different"
	}
	if _, err := fmt.Fprintf(w, "%s: %s of %s pixels differ (%.3f%%), %s ignored as anti-aliasing\n",
		verdict, humanize.Comma(int64(r.DiffPixels)), humanize.Comma(int64(r.TotalPixels)), r.DiffPercentage, humanize.Comma(int64(r.AAPixelsIgnored))); err != nil {
		return skerr.Wrap(err)
	}
	if r.Partial {
		fmt.Fprintln(w, "scan stopped early at max_diffs; counts are partial")
	}
	if r.HeightDiff != nil {
		fmt.Fprintf(w, "heights differ: %d vs %d (%s extra pixels)\n", r.HeightDiff.Height1, r.HeightDiff.Height2, humanize.Comma(int64(r.HeightDiff.ExtraPixels)))
	}
	if r.SSIM != nil {
		fmt.Fprintf(w, "SSIM: %.5f\n", *r.SSIM)
	}
	if r.GMSD != nil {
		fmt.Fprintf(w, "GMSD: %.5f\n", *r.GMSD)
	}
	if s := r.IntensityStats; s != nil {
		fmt.Fprintf(w, "intensity: min %d max %d mean %.1f median %.1f stddev %.1f\n", s.Min, s.Max, s.Mean, s.Median, s.StdDev)
	}
	if len(r.DiffClusters) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Pixels", "Box", "Center", "Intensity", "Delta-E"})
	for i, c := range r.DiffClusters {
		dE := ""
		if c.Accessibility != nil {
			dE = strconv.FormatFloat(c.Accessibility.ColorDeltaE, 'f', 1, 64)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			humanize.Comma(int64(c.PixelCount)),
			fmt.Sprintf("%d,%d %dx%d", c.BoundingBox.X, c.BoundingBox.Y, c.BoundingBox.Width, c.BoundingBox.Height),
			fmt.Sprintf("%.1f,%.1f", c.CenterOfMass[0], c.CenterOfMass[1]),
			strconv.FormatFloat(c.AvgIntensity, 'f', 1, 64),
			dE,
		})
	}
	table.Render()
	return nil
}
