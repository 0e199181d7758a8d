package truststore

import (
	"context"
	"errors"
	"io/fs"
)

// NewPlatform returns the System target for the build platform.
func NewPlatform(homeDir string, dataFS fs.StatFS, sysFS CmdFS) *Platform {
	return &Platform{
		HomeDir: homeDir,
		DataFS:  dataFS,
		SysFS:   sysFS,
	}
}

func (s *Platform) Description() string { return "System (" + platformName + ")" }

func (s *Platform) InstallCA(ctx context.Context, ca *CA) ([]Outcome, error) {
	if err := s.check(); err != nil {
		if errors.Is(err, ErrUnsupportedPlatform) {
			return []Outcome{Skipped(s.Description(), "", err)}, nil
		}
		return []Outcome{Failed(s.Description(), "", Error{
			Op: OpCheck,

			Warning: PlatformError{
				Err: err,

				RootCA: ca.FilePath,
			},
		})}, nil
	}

	location, err := s.installCA(ctx, ca)
	if IsFatal(err) {
		return nil, err
	}
	if err != nil {
		return []Outcome{Failed(s.Description(), location, err)}, nil
	}
	return []Outcome{Installed(s.Description(), location)}, nil
}
