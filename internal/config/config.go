// Package config loads client settings from ~/.notes/config.yaml and
// NOTES_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment variable, e.g. NOTES_API_URL.
const EnvPrefix = "NOTES"

const configFileName = "config.yaml"

// Config holds the client settings.
type Config struct {
	// Home holds credentials, config and the TUI log. Not read from the file.
	Home string `yaml:"-"`

	// APIURL is the notes service root.
	APIURL string `yaml:"api-url" default:"http://localhost:8000/api"`
	// Timeout bounds a single HTTP request.
	Timeout time.Duration `yaml:"timeout" default:"30s"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log-level" default:"warn"`
	// Theme selects the plain-output palette: classic, neon or mono.
	Theme string `yaml:"theme" default:"classic"`
	// Debug dumps HTTP traffic to the log.
	Debug bool `yaml:"debug"`

	// Token is an access credential from NOTES_TOKEN; never written to disk.
	Token string `yaml:"-"`
}

// env mirrors Config for environment overrides. Pointers distinguish
// "unset" from zero values. Keys come from split field names (APIUrl ->
// NOTES_API_URL); an envconfig tag would also read the unprefixed name.
type env struct {
	Home     *string
	APIUrl   *string `split_words:"true"`
	Timeout  *time.Duration
	LogLevel *string `split_words:"true"`
	Theme    *string
	Debug    *bool
	Token    *string
}

// DefaultHome is ~/.notes.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "home")
	}
	return filepath.Join(home, ".notes"), nil
}

// Load applies defaults, then the config file in the home directory (if
// present), then NOTES_* environment variables.
func Load() (*Config, error) {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}

	home := ""
	if e.Home != nil && *e.Home != "" {
		home = *e.Home
	} else {
		h, err := DefaultHome()
		if err != nil {
			return nil, err
		}
		home = h
	}

	c, err := LoadFile(filepath.Join(home, configFileName))
	if err != nil {
		return nil, err
	}
	c.Home = home
	c.applyEnv(e)
	return c, nil
}

// LoadFile reads one YAML file over the defaults. A missing file yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	c := new(Config)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrap(err, "read config file failed")
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// Fill fields present in the file but left empty.
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}
	return c, nil
}

func (c *Config) applyEnv(e env) {
	if e.APIUrl != nil && *e.APIUrl != "" {
		c.APIURL = *e.APIUrl
	}
	if e.Timeout != nil && *e.Timeout > 0 {
		c.Timeout = *e.Timeout
	}
	if e.LogLevel != nil && *e.LogLevel != "" {
		c.LogLevel = *e.LogLevel
	}
	if e.Theme != nil && *e.Theme != "" {
		c.Theme = *e.Theme
	}
	if e.Debug != nil {
		c.Debug = *e.Debug
	}
	if e.Token != nil {
		c.Token = *e.Token
	}
}

// Save writes the persistent settings to the home directory.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.MkdirAll(c.Home, 0o700); err != nil {
		return errors.Wrap(err, "mkdir")
	}
	if err := os.WriteFile(filepath.Join(c.Home, configFileName), data, 0o600); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// RememberAPIURL stores apiURL in the config file under home, keeping the
// other settings already in that file.
func RememberAPIURL(home, apiURL string) error {
	c, err := LoadFile(filepath.Join(home, configFileName))
	if err != nil {
		return err
	}
	c.Home = home
	c.APIURL = apiURL
	return c.Save()
}
