// swatch extracts fixed-slot colour palettes from images and turns them
// into terminal colour schemes.
package main

import "github.com/jmylchreest/swatch/internal/cli"

func main() {
	cli.Execute()
}
