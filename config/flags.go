package config

import (
	"flag"
	"sync"
)

// Flags command-line switches of the whalehub binary.
type Flags struct {
	// ConfigPath path to the yaml config; empty means environment only.
	ConfigPath string
	// Setup runs the configuration wizard before starting.
	Setup bool
}

var (
	flagsOnce sync.Once
	flags     Flags
)

// ParseFlags parses the command line once and returns the switches.
func ParseFlags() Flags {
	flagsOnce.Do(func() {
		path := flag.String("config", "", "path to yaml config")
		setup := flag.Bool("setup", false, "run the interactive configuration wizard")
		flag.Parse()
		flags = Flags{ConfigPath: *path, Setup: *setup}
	})
	return flags
}
