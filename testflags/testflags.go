// Package testflags registers the flags shared by package tests. Import it
// for side effects from a test file.
package testflags

import "flag"

// Update rewrites .golden files with the output of the test run.
var Update = flag.Bool("update", false, "update .golden files")
