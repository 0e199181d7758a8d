package truststore

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mitchellh/go-homedir"
)

const (
	TargetSystem = "system"
	TargetNSS    = "nss"
	TargetMock   = "mock"
)

var DefaultTargets = []string{TargetSystem, TargetNSS}

type TargetOptions struct {
	// HomeDir overrides the current user's home directory.
	HomeDir string

	NoSudo bool

	// AroundSudo wraps every privileged command, e.g. to release the
	// terminal while sudo prompts for a password.
	AroundSudo func(sudoExec func())

	SysFS CmdFS
}

// LoadTargets returns the targets selected by names, in order.
func LoadTargets(names []string, opts TargetOptions) ([]Target, error) {
	homeDir := opts.HomeDir
	if homeDir == "" {
		var err error
		if homeDir, err = homedir.Dir(); err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
	}

	rootFS := opts.SysFS
	if rootFS == nil {
		rootFS = RootFS()
	}
	sysFS := &SudoManager{
		CmdFS:  rootFS,
		NoSudo: opts.NoSudo,

		AroundSudo: opts.AroundSudo,
	}

	var targets []Target
	for _, name := range names {
		switch name {
		case TargetSystem:
			targets = append(targets, NewPlatform(homeDir, rootFS, sysFS))
		case TargetNSS:
			targets = append(targets, &NSS{
				HomeDir: homeDir,
				HomeFS:  os.DirFS(homeDir),
			})
		case TargetMock:
			targets = append(targets, Mock{})
		default:
			return nil, fmt.Errorf("%w %q", ErrUnknownTarget, name)
		}
	}
	return targets, nil
}

type SudoManager struct {
	CmdFS

	NoSudo bool

	AroundSudo func(sudoExec func())
}

func (s *SudoManager) SudoExec(cmd *exec.Cmd) ([]byte, error) {
	sudoFn := s.CmdFS.SudoExec
	if s.NoSudo {
		sudoFn = s.CmdFS.Exec
	}

	if s.AroundSudo == nil {
		return sudoFn(cmd)
	}

	var (
		out []byte
		err error
	)
	s.AroundSudo(func() {
		out, err = sudoFn(cmd)
	})
	return out, err
}
