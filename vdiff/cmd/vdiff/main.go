// vdiff compares images for visual regression testing and checks single
// images for WCAG contrast problems.
//
//	vdiff compare before.png after.png --clusters --diff=diff.png
//	vdiff wcag page.png --cvd
//	vdiff cvd page.png --type=deutan --out=deutan.png
//	vdiff fingerprint a1.png b1.png a2.png b2.png
package main

import (
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
