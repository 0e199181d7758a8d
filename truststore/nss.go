package truststore

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

const nssBrowsers = "Firefox"

var nssDatabases = []string{"cert9.db", "cert8.db"}

// NSS discovers Firefox profiles that carry an NSS certificate database.
// Writing to the databases is not supported: every discovered profile is
// reported as skipped.
type NSS struct {
	HomeDir string

	// HomeFS is rooted at HomeDir.
	HomeFS fs.FS

	// BaseDirs are slash separated paths relative to HomeFS. Nil selects the
	// build platform's Firefox profile directories.
	BaseDirs []string
}

func NewNSS(homeDir string) *NSS {
	return &NSS{
		HomeDir: homeDir,
		HomeFS:  os.DirFS(homeDir),
	}
}

func (n *NSS) Description() string { return nssBrowsers + " (NSS)" }

func (n *NSS) InstallCA(_ context.Context, _ *CA) ([]Outcome, error) {
	baseDirs := n.BaseDirs
	if baseDirs == nil {
		baseDirs = firefoxProfiles()
	}
	if len(baseDirs) == 0 {
		return []Outcome{Skipped(n.Description(), "", ErrUnsupportedPlatform)}, nil
	}

	var (
		foundBase bool
		outcomes  []Outcome
	)
	for _, base := range baseDirs {
		entries, err := fs.ReadDir(n.HomeFS, base)
		if err != nil {
			continue
		}
		foundBase = true

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			profile := path.Join(base, entry.Name())
			if !n.hasDatabase(profile) {
				continue
			}

			outcomes = append(outcomes, Skipped(n.Description(), n.location(profile), NSSError{
				Err: ErrNotImplemented,

				NSSBrowsers: nssBrowsers,
			}))
		}
	}

	switch {
	case !foundBase:
		return []Outcome{Skipped(n.Description(), "", ErrNoNSS)}, nil
	case len(outcomes) == 0:
		return []Outcome{Skipped(n.Description(), "", ErrNoNSSDB)}, nil
	}
	return outcomes, nil
}

func (n *NSS) hasDatabase(profile string) bool {
	for _, db := range nssDatabases {
		if info, err := fs.Stat(n.HomeFS, path.Join(profile, db)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func (n *NSS) location(profile string) string {
	return filepath.Join(n.HomeDir, filepath.FromSlash(profile))
}
