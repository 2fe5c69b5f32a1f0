package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.skia.org/visualdiff/vdiff/go/engine"
	"go.skia.org/visualdiff/vdiff/go/imgio"
	"go.skia.org/visualdiff/vdiff/go/render"
)

// cvdEnv provides the environment for the cvd command.
type cvdEnv struct {
	cvdType   string
	out       string
	overwrite bool
}

// getCvdCmd returns the definition of the cvd command.
func getCvdCmd() *cobra.Command {
	env := &cvdEnv{}
	cmd := &cobra.Command{
		Use:   "cvd IMAGE",
		Short: "Simulate a color vision deficiency",
		Long: `
Writes IMAGE as it appears with the given color vision deficiency to --out as
a PNG. Types are protanopia, deuteranopia, tritanopia and achromatopsia, or
their short forms protan, deutan, tritan and achroma.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.run(cmd.OutOrStdout(), args[0])
		},
	}
	cmd.Flags().StringVar(&env.cvdType, "type", "", "Color vision deficiency to simulate.")
	cmd.Flags().StringVar(&env.out, "out", "", "Destination PNG.")
	cmd.Flags().BoolVar(&env.overwrite, "overwrite", false, "Replace --out if it exists.")
	must(cmd.MarkFlagRequired("type"))
	must(cmd.MarkFlagRequired("out"))
	return cmd
}

func (e *cvdEnv) run(w io.Writer, path string) error {
	img, err := imgio.Load(path)
	if err != nil {
		return err
	}
	sim, err := engine.SimulateCVD(img, e.cvdType)
	if err != nil {
		return err
	}
	if err := (render.PNGSink{Overwrite: e.overwrite}).Write(sim, e.out); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "wrote %s\n", e.out)
	return err
}

// must panics on errors that can only come from programming mistakes, such
// as marking a flag that does not exist as required.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
