package main

import (
	"ecotracker/internal/di"
	"ecotracker/internal/structures"
	"flag"
	"fmt"
	"os"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config/config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "d", false, "mirror logs to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "ecotracker: %v\n", err)
		os.Exit(1)
	}
}
