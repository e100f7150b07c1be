package main

import (
	"os"

	"github.com/larsks/lutronctl/internal/cli"
	_ "github.com/larsks/lutronctl/internal/logsetup"
	"github.com/larsks/lutronctl/internal/lutronctl"
)

func main() {
	os.Exit(cli.StandardMain("lutronctl",
		func() cli.Configurable { return lutronctl.NewConfig() },
		lutronctl.NewHandler(),
	))
}
