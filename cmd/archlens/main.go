package main

import (
	"os"

	"github.com/matzehuels/archlens/internal/cli"
	"github.com/matzehuels/archlens/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
