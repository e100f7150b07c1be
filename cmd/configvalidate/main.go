package main

import (
	"fmt"
	"os"

	"github.com/larsks/lutronctl/internal/lutronctl"
	"github.com/larsks/lutronctl/internal/version"
	"github.com/spf13/pflag"
)

func main() {
	var (
		versionFlag = pflag.Bool("version", false, "Show version and exit")
		configFile  = pflag.String("config", "", "Configuration file to validate")
		checkDB     = pflag.Bool("check-db", false, "Also check that the cached device database loads")
		helpFlag    = pflag.BoolP("help", "h", false, "Show help")
	)

	pflag.Parse()

	if *versionFlag {
		version.ShowVersion()
		os.Exit(0)
	}

	if *helpFlag {
		usage()
		os.Exit(0)
	}

	if *configFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --config flag is required\n\n") //nolint:errcheck
		usage()
		os.Exit(1)
	}

	summary, err := lutronctl.ValidateConfigFile(*configFile, *checkDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err) //nolint:errcheck
		os.Exit(1)
	}

	fmt.Printf("✓ Configuration file %s is valid (%s)\n", *configFile, summary)
}

func usage() {
	//nolint:errcheck
	fmt.Fprintf(os.Stderr, "Usage: %s --config FILE [--check-db]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "A tool for validating lutronctl configuration files.\n\n") //nolint:errcheck

	fmt.Fprintf(os.Stderr, "Options:\n") //nolint:errcheck
	pflag.PrintDefaults()

	fmt.Fprintf(os.Stderr, "\nExamples:\n")                                         //nolint:errcheck
	fmt.Fprintf(os.Stderr, "  %s --config lutronctl.toml\n", os.Args[0])            //nolint:errcheck
	fmt.Fprintf(os.Stderr, "  %s --config lutronctl.toml --check-db\n", os.Args[0]) //nolint:errcheck
}
