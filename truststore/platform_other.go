//go:build !windows && !darwin && !linux

package truststore

import (
	"context"
	"io/fs"
	"runtime"
)

var platformName = runtime.GOOS

func firefoxProfiles() []string { return nil }

type Platform struct {
	HomeDir string

	DataFS fs.StatFS
	SysFS  CmdFS
}

func (s *Platform) check() error { return ErrUnsupportedPlatform }

func (s *Platform) installCA(context.Context, *CA) (string, error) {
	return "", ErrUnsupportedPlatform
}
