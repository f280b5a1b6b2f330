// Command horizon3ds drives a core.Core headless or under the
// tview/tcell inspector, loading a raw boot image straight into RAM at
// the application core's reset vector. Cartridge loading, save storage,
// and every other piece of platform glue are explicitly out of scope
// (spec.md Non-goals); this binary only exists to exercise the CPU/GPU
// core the package implements.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/horizon3ds/core/config"
	"github.com/horizon3ds/core/core"
	"github.com/horizon3ds/core/debugger"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		inspect     = flag.Bool("inspect", false, "Launch the read-only TUI inspector instead of running headless")
		maxCycles   = flag.Uint64("max-cycles", 0, "Override the configured CPU cycle budget (0 keeps the config value)")
		configPath  = flag.String("config", "", "Path to a TOML config file (default: platform config dir)")
		verbose     = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("horizon3ds %s\n", Version)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: horizon3ds [flags] <boot-image>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *maxCycles != 0 {
		cfg.Execution.MaxCycles = *maxCycles
	}

	bootPath := flag.Arg(0)
	image, err := os.ReadFile(bootPath) // #nosec G304 -- user-specified boot image path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read boot image %s: %v\n", bootPath, err)
		os.Exit(1)
	}
	if len(image) > core.RAMSize {
		fmt.Fprintf(os.Stderr, "Error: boot image (%d bytes) exceeds RAM size (%d bytes)\n", len(image), core.RAMSize)
		os.Exit(1)
	}

	c := core.New(cfg.Execution.VRAMSize)
	c.Reset()
	copy(c.RAM, image)

	if *verbose {
		fmt.Printf("Loaded %s (%d bytes) at 0x%08X, cycle budget %d\n",
			bootPath, len(image), core.RAMBase, cfg.Execution.MaxCycles)
	}

	if *inspect {
		runInspector(c)
		return
	}

	if err := runHeadless(c, cfg.Execution.MaxCycles); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// runHeadless drives RunFrame in a loop until the cycle budget is spent
// or a fatal error surfaces from either core.
func runHeadless(c *core.Core, maxCycles uint64) error {
	const cpuQuantum = 64
	for c.Application.Cycles+c.Security.Cycles < maxCycles {
		if err := c.RunFrame(cpuQuantum); err != nil {
			return err
		}
	}
	return nil
}

// runInspector launches the TUI against the core's current (just-reset)
// state; stepping forward from there happens through the TUI's own
// command line, not this function.
func runInspector(c *core.Core) {
	tui := debugger.NewTUI(c)
	tui.RefreshAll()
	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Inspector error: %v\n", err)
		os.Exit(1)
	}
}
