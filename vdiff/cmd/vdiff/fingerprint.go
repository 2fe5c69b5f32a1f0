package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/vdiff/go/engine"
	"go.skia.org/visualdiff/vdiff/go/fingerprint"
	"go.skia.org/visualdiff/vdiff/go/options"
	"go.skia.org/visualdiff/vdiff/go/types"
)

// fingerprintEnv provides the environment for the fingerprint command.
type fingerprintEnv struct {
	opts      options.CompareOptions
	threshold float64
	cacheSize int
	jsonOut   bool
}

// fingerprintRow is one compared pair in the fingerprint report.
type fingerprintRow struct {
	Before      string                 `json:"before"`
	After       string                 `json:"after"`
	Fingerprint *types.DiffFingerprint `json:"fingerprint"`
	Group       int                    `json:"group"`
}

// getFingerprintCmd returns the definition of the fingerprint command.
func getFingerprintCmd() *cobra.Command {
	env := &fingerprintEnv{opts: options.DefaultCompareOptions()}
	cmd := &cobra.Command{
		Use:   "fingerprint BEFORE AFTER [BEFORE AFTER]...",
		Short: "Fingerprint diffs and group similar ones",
		Long: `
Compares each BEFORE/AFTER pair with clustering enabled and prints the
fingerprint of the resulting diff. Pairs whose fingerprints hash equally or
are at least --similarity alike are placed in the same group.
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return skerr.Fmt("want pairs of images, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd.OutOrStdout(), args)
		},
	}
	options.RegisterCompareFlags(cmd.Flags(), &env.opts)
	cmd.Flags().Float64Var(&env.threshold, "similarity", 0.8, "Smallest similarity for two diffs to share a group.")
	cmd.Flags().IntVar(&env.cacheSize, "group_cache_size", 1024, "Number of recent fingerprints remembered for grouping.")
	cmd.Flags().BoolVar(&env.jsonOut, "json", false, "Print the report as JSON.")
	return cmd
}

func (e *fingerprintEnv) run(w io.Writer, args []string) error {
	grouper, err := fingerprint.NewGrouper(e.cacheSize, e.threshold)
	if err != nil {
		return err
	}
	opts := e.opts
	opts.IncludeClusters = true
	rows := make([]fingerprintRow, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		c, err := engine.CompareFiles(args[i], args[i+1], opts)
		if err != nil {
			return err
		}
		row := fingerprintRow{Before: args[i], After: args[i+1], Group: -1}
		if fp := engine.Fingerprint(c.Result); fp != nil {
			row.Fingerprint = fp
			row.Group = grouper.Assign(fp).ID
		}
		rows = append(rows, row)
	}
	if e.jsonOut {
		return writeJSON(w, rows)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Before", "After", "Hash", "Magnitude", "Clusters", "Group", "Similarity to first"})
	first := rows[0].Fingerprint
	for _, r := range rows {
		if r.Fingerprint == nil {
			table.Append([]string{r.Before, r.After, "-", "-", "0", "-", "-"})
			continue
		}
		fp := r.Fingerprint
		table.Append([]string{
			r.Before,
			r.After,
			fp.Hash,
			fp.DiffMagnitude.String(),
			strconv.Itoa(fp.ClusterCount),
			strconv.Itoa(r.Group),
			fmt.Sprintf("%.3f", engine.FingerprintSimilarity(first, fp)),
		})
	}
	table.Render()
	return nil
}
