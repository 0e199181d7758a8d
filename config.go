package devcert

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/mcuadros/go-defaults"
	"github.com/mitchellh/go-homedir"
	"github.com/mohae/deepcopy"
	"github.com/pelletier/go-toml/v2"
)

const appDirName = "devcert"

type Config struct {
	NonInteractive bool   `desc:"Run without ever asking for user input." flag:"non-interactive,n" env:"DEVCERT_NON_INTERACTIVE" toml:"non-interactive"`
	Verbose        bool   `desc:"Log to stderr." flag:"verbose,v" env:"DEVCERT_VERBOSE" toml:"verbose"`
	LogFile        string `desc:"Append logs to this file." flag:"log-file" env:"DEVCERT_LOG_FILE" toml:"log-file"`

	Profile string `default:"default" desc:"Certificate profile to use." flag:"profile,p" env:"DEVCERT_PROFILE" toml:"profile"`
	RootDir string `desc:"Directory holding the certificate profiles." flag:"root-dir" env:"DEVCERT_ROOT_DIR" toml:"root-dir"`

	File struct {
		Path string `default:"devcert.toml" desc:"Configuration file." env:"DEVCERT_CONFIG"`
		Skip bool   `desc:"Skip loading the configuration file." env:"DEVCERT_SKIP_CONFIG"`
	} `toml:"-"`

	Install struct {
		Overwrite bool     `desc:"Replace an existing root certificate without asking." flag:"overwrite" env:"DEVCERT_OVERWRITE" toml:"overwrite"`
		NoSudo    bool     `desc:"Disable sudo prompts." flag:"no-sudo" env:"DEVCERT_NO_SUDO" toml:"no-sudo"`
		Stores    []string `default:"[system,nss]" desc:"Trust stores to update." flag:"trust-stores" env:"DEVCERT_TRUST_STORES" toml:"trust-stores"`
	} `cmd:"install" toml:"install"`

	Add struct {
		Host string `desc:"Hostname or IP address to issue a certificate for."`
	} `cmd:"add" toml:"-"`

	Version struct{} `cmd:"version" toml:"-"`

	Test ConfigTest `toml:"-"`
}

// values used for testing
type ConfigTest struct {
	GOOS      string    `desc:"change OS identifier in tests"`
	HomeDir   string    `desc:"change the home directory in tests"`
	SkipRunE  bool      `desc:"skip RunE for testing purposes"`
	Timestamp time.Time `desc:"timestamp to use/display in tests"`
}

var Defaults = defaultConfig()

func defaultConfig() *Config {
	cfg := new(Config)
	defaults.SetDefaults(cfg)
	return cfg
}

// DefaultConfig returns a copy of Defaults.
func DefaultConfig() *Config {
	return deepcopy.Copy(Defaults).(*Config)
}

// Load applies the configuration file and then the environment on top of
// the current values.
func (c *Config) Load() error {
	if err := c.loadENV(); err != nil {
		return err
	}
	if c.File.Skip {
		return nil
	}

	path := c.File.Path
	if err := c.loadTOML(os.DirFS(filepath.Dir(path)), filepath.Base(path)); err != nil {
		return err
	}
	return c.loadENV()
}

func (c *Config) loadENV() error {
	if err := envdecode.Decode(c); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return err
	}
	return nil
}

func (c *Config) loadTOML(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewDecoder(f).Decode(c)
}

func (c Config) GOOS() string {
	if goos := c.Test.GOOS; goos != "" {
		return goos
	}
	return runtime.GOOS
}

func (c Config) Timestamp() time.Time {
	if timestamp := c.Test.Timestamp; !timestamp.IsZero() {
		return timestamp
	}
	return time.Now().UTC()
}

func (c Config) HomeDir() (string, error) {
	if homeDir := c.Test.HomeDir; homeDir != "" {
		return homeDir, nil
	}
	return homedir.Dir()
}

// RootDirPath returns the directory holding the profile stores:
// --root-dir if set, otherwise devcert under the user configuration
// directory, falling back to ~/.config.
func (c Config) RootDirPath() (string, error) {
	if c.RootDir != "" {
		return homedir.Expand(c.RootDir)
	}

	if c.Test.HomeDir == "" {
		if configDir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(configDir, appDirName), nil
		}
	}

	homeDir, err := c.HomeDir()
	if err != nil {
		return "", &BasedirError{Err: err}
	}
	if homeDir == "" {
		return "", &BasedirError{Err: errors.New("home directory is not set")}
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}
