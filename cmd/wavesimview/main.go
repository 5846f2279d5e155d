// Command wavesimview drives a wavesim.Engine and presents it through a
// window, an optional audio probe and an interactive console.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/waveforge/wavesim"
)

func main() {
	presetPath := flag.String("preset", "", "optional YAML file overriding the embedded defaults")
	flag.Parse()

	preset, err := LoadPreset(*presetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wavesimview: %v\n", err)
		os.Exit(1)
	}

	if err := run(preset); err != nil {
		fmt.Fprintf(os.Stderr, "wavesimview: %v\n", err)
		os.Exit(1)
	}
}

func newEngine(preset *Preset, onRender wavesim.RenderFunc) *wavesim.Engine {
	e := wavesim.NewEngine(onRender)
	preset.Apply(e)
	return e
}
