package main

import (
	"fmt"
	"os"

	"github.com/Killavus/devcert"
	_ "github.com/Killavus/devcert/add"
	_ "github.com/Killavus/devcert/install"
	_ "github.com/Killavus/devcert/version"
)

var (
	// Version info set by GoReleaser via ldflags

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	devcert.Version.Version = version
	devcert.Version.Commit = commit
	devcert.Version.Date = date

	if err := devcert.CmdRoot.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
