package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.skia.org/visualdiff/vdiff/go/engine"
	"go.skia.org/visualdiff/vdiff/go/imgio"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// wcagEnv provides the environment for the wcag command.
type wcagEnv struct {
	opts       options.WcagOptions
	configFile string
	cvd        bool
	jsonOut    bool
}

// getWcagCmd returns the definition of the wcag command.
func getWcagCmd() *cobra.Command {
	env := &wcagEnv{opts: options.DefaultWcagOptions()}
	cmd := &cobra.Command{
		Use:   "wcag IMAGE",
		Short: "Find low-contrast boundaries in an image",
		Long: `
Detects color boundaries in IMAGE and grades their contrast against the WCAG 2
AA and AAA tiers. With --cvd the analysis is repeated for protanopia,
deuteranopia and tritanopia, and violations only those viewers see are
counted.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.configFile != "" {
				base, err := options.LoadWcagOptions(env.configFile)
				if err != nil {
					return err
				}
				if err := reloadWithFlags(cmd.Flags(), &env.opts, base); err != nil {
					return err
				}
			}
			return env.run(cmd.OutOrStdout(), args[0])
		},
	}
	options.RegisterWcagFlags(cmd.Flags(), &env.opts)
	cmd.Flags().StringVar(&env.configFile, "config", "", "JSON5 or YAML file with WCAG options.")
	cmd.Flags().BoolVar(&env.cvd, "cvd", false, "Also analyze under simulated color vision deficiencies.")
	cmd.Flags().BoolVar(&env.jsonOut, "json", false, "Print the full result as JSON.")
	return cmd
}

func (e *wcagEnv) run(w io.Writer, path string) error {
	img, err := imgio.Load(path)
	if err != nil {
		return err
	}
	if !e.cvd {
		a, err := engine.AnalyzeWCAG(img, e.opts)
		if err != nil {
			return err
		}
		if e.jsonOut {
			return writeJSON(w, a)
		}
		printAnalysis(w, "normal vision", a)
		return nil
	}
	r, err := engine.AnalyzeCVDWCAG(img, e.opts)
	if err != nil {
		return err
	}
	if e.jsonOut {
		return writeJSON(w, r)
	}
	printAnalysis(w, "normal vision", r.Normal)
	for _, t := range types.DichromatTypes {
		printAnalysis(w, t.String(), r.ForType(t))
	}
	fmt.Fprintf(w, "violations: %d normal, %d worst (%s), %d only under CVD\n",
		r.NormalViolationCount, r.MaxCvdViolationCount, r.WorstCvdType, r.CvdOnlyViolationCount)
	return nil
}

func printAnalysis(w io.Writer, title string, a *types.WcagAnalysis) {
	fmt.Fprintf(w, "%s: %d edge regions, AA normal %.1f%%, AA large %.1f%%, AAA normal %.1f%%, AAA large %.1f%%\n",
		title, a.TotalEdges, a.AANormalPercentage, a.AALargePercentage, a.AAANormalPercentage, a.AAALargePercentage)
	if len(a.Violations) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Box", "Contrast", "Min", "Max", "Foreground", "Background", "Fails"})
	for _, v := range a.Violations {
		table.Append([]string{
			fmt.Sprintf("%d,%d %dx%d", v.BoundingBox.X, v.BoundingBox.Y, v.BoundingBox.Width, v.BoundingBox.Height),
			strconv.FormatFloat(v.ContrastRatio, 'f', 2, 64),
			strconv.FormatFloat(v.MinContrastRatio, 'f', 2, 64),
			strconv.FormatFloat(v.MaxContrastRatio, 'f', 2, 64),
			hex(v.ForegroundColor),
			hex(v.BackgroundColor),
			fails(v),
		})
	}
	table.Render()
}

func hex(c types.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func fails(v types.ContrastViolation) string {
	var ret []string
	for _, tier := range []struct {
		failed bool
		name   string
	}{
		{v.FailsAANormal, "AA"},
		{v.FailsAALarge, "AA-large"},
		{v.FailsAAANormal, "AAA"},
		{v.FailsAAALarge, "AAA-large"},
	} {
		if tier.failed {
			ret = append(ret, tier.name)
		}
	}
	return strings.Join(ret, " ")
}
