// Package stacktrace turns panics in command code into errors whose stack
// has machine specific paths and addresses removed.
package stacktrace

import (
	"cmp"
	"fmt"
	"go/build"
	"os"
	"regexp"
	"runtime/debug"
	"slices"
	"strings"
)

var defaultCleaner = newCleaner(map[string]string{
	"<goroot>": build.Default.GOROOT,
	"<gopath>": build.Default.GOPATH,
	"<pwd>":    valueOf(os.Getwd),
	"<home>":   valueOf(os.UserHomeDir),
})

// CapturePanic runs fn and returns a panic raised by it as an Error.
func CapturePanic(fn func() error) (err error) {
	defer func() {
		if msg := recover(); msg != nil {
			err = Error{
				Value: msg,
				Stack: defaultCleaner.clean(string(debug.Stack())),
			}
		}
	}()

	return fn()
}

type Error struct {
	Value any

	Stack string
}

func (e Error) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

func (e Error) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

var (
	stackHexRegexp = regexp.MustCompile(`0x[0-9a-f]+\??`)

	goroutineRegexp = regexp.MustCompile(` in goroutine \d+$`)
)

type cleaner struct {
	paths *strings.Replacer
}

// newCleaner replaces each non-empty path with its placeholder. Longer
// paths are matched first, so a working directory under $HOME is reported
// as <pwd>.
func newCleaner(paths map[string]string) *cleaner {
	type replacement struct{ path, placeholder string }

	var repls []replacement
	for placeholder, path := range paths {
		if path != "" {
			repls = append(repls, replacement{normalizedStackPath(path), placeholder})
		}
	}
	slices.SortFunc(repls, func(a, b replacement) int {
		return cmp.Compare(len(b.path), len(a.path))
	})

	var pairs []string
	for _, r := range repls {
		pairs = append(pairs, r.path, r.placeholder)
	}
	return &cleaner{paths: strings.NewReplacer(pairs...)}
}

func (c *cleaner) clean(stack string) string {
	lines := strings.Split(strings.TrimRight(stack, "\n"), "\n")

	// frames above the panic belong to the recovery
	for i, line := range lines {
		if strings.HasPrefix(line, "panic(") {
			lines = lines[i:]
			break
		}
	}

	for i, line := range lines {
		line = c.paths.Replace(line)
		line = stackHexRegexp.ReplaceAllString(line, "<hex>")
		line = goroutineRegexp.ReplaceAllString(line, " in goroutine <int>")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func normalizedStackPath(path string) string {
	return strings.ReplaceAll(path, string(os.PathSeparator), "/")
}

func valueOf(fn func() (string, error)) string {
	s, _ := fn()
	return s
}
