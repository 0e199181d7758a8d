// Package devcert is a local developer PKI: it creates a root CA per
// profile, issues leaf certificates signed by it and installs the root into
// the local trust stores.
package devcert

import (
	"context"
	"fmt"
	"runtime"

	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Killavus/devcert/ui"
)

var Version = struct {
	Version, Commit, Date string

	Os, Arch string
}{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
	Os:      runtime.GOOS,
	Arch:    runtime.GOARCH,
}

func IsDevVersion() bool {
	return Version.Version == "dev"
}

func VersionString() string {
	return fmt.Sprintf("%s (%s/%s) Commit: %s BuildDate: %s", Version.Version, Version.Os, Version.Arch, Version.Commit, Version.Date)
}

// UI is how a command interacts with the terminal. RunTTY, if set, writes
// plain output and takes precedence over RunTUI.
type UI struct {
	RunTTY func(context.Context, *termenv.Output) error
	RunTUI func(context.Context, *ui.Driver) error
}

type ContextKey string

func ConfigFromContext(ctx context.Context) *Config {
	return ctx.Value(ContextKey("Config")).(*Config)
}

func ConfigFromCmd(cmd *cobra.Command) *Config {
	return ConfigFromContext(cmd.Context())
}

func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ContextKey("Config"), cfg)
}

// LoggerFromContext returns the context's logger, or one that discards
// everything.
func LoggerFromContext(ctx context.Context) logrus.FieldLogger {
	if log, ok := ctx.Value(ContextKey("Logger")).(logrus.FieldLogger); ok {
		return log
	}
	return discardLogger()
}

func ContextWithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ContextKey("Logger"), log)
}
