package truststore

import (
	"io"
	"io/fs"
	"os/exec"
)

type recordFS struct {
	fs.StatFS

	cmds  [][]string
	stdin [][]byte

	sudoErr error
}

func (r *recordFS) Command(name string, arg ...string) *exec.Cmd {
	return &exec.Cmd{Path: name, Args: append([]string{name}, arg...)}
}

func (r *recordFS) Exec(cmd *exec.Cmd) ([]byte, error) {
	r.cmds = append(r.cmds, cmd.Args)

	var in []byte
	if cmd.Stdin != nil {
		in, _ = io.ReadAll(cmd.Stdin)
	}
	r.stdin = append(r.stdin, in)
	return nil, nil
}

func (r *recordFS) SudoExec(cmd *exec.Cmd) ([]byte, error) {
	if r.sudoErr != nil {
		return []byte("sudo: a password is required"), r.sudoErr
	}
	return r.Exec(cmd)
}

func (r *recordFS) LookPath(cmd string) (string, error) { return "", exec.ErrNotFound }
