package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.skia.org/visualdiff/go/metrics2"
	"go.skia.org/visualdiff/go/skerr"
	"go.skia.org/visualdiff/go/sklog"
	"go.skia.org/visualdiff/go/sklog/stdlogging"
)

type rootEnv struct {
	promPort string
	verbose  bool
}

// rootCmd returns the vdiff command with every subcommand attached.
func rootCmd() *cobra.Command {
	env := &rootEnv{}
	cmd := &cobra.Command{
		Use:   "vdiff",
		Short: "Visual diff and accessibility checks for images.",
		Long: `Compares two renderings of the same content pixel by pixel, clusters
and scores the differences, and writes highlighted diff artifacts.

Single images can be checked for low-contrast text boundaries under normal
vision and simulated color vision deficiencies.
`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !env.verbose {
				sklog.SetLogger(stdlogging.NewQuiet(os.Stderr))
			}
			metrics2.InitPrometheus(env.promPort)
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				sklog.Infof("Flags: --%s=%v", f.Name, f.Value)
			})
		},
	}
	cmd.PersistentFlags().StringVar(&env.promPort, "prom_port", "", "Metrics service address (e.g., ':20000'). Empty disables the endpoint.")
	cmd.PersistentFlags().BoolVar(&env.verbose, "verbose", false, "Include debug logging.")

	cmd.AddCommand(
		getCompareCmd(),
		getWcagCmd(),
		getCvdCmd(),
		getFingerprintCmd(),
	)
	return cmd
}

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return skerr.Wrap(enc.Encode(v))
}

// reloadWithFlags overlays base with the flags the user explicitly set on
// fs. The flags of fs must be bound to fields of *dst.
func reloadWithFlags[T any](fs *pflag.FlagSet, dst *T, base T) error {
	changed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	*dst = base
	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return skerr.Wrapf(err, "re-applying --%s", name)
		}
	}
	return nil
}
