package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/pathway/internal/errors"
)

const (
	// BaseName is the configuration file name without extension.
	BaseName = "pathway"

	// DefaultAddr is the default serve listen address.
	DefaultAddr = ":8080"

	// DefaultWSPath is the default remote window endpoint.
	DefaultWSPath = "/ws"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultEventsPerSecond is the default remote window event rate.
	DefaultEventsPerSecond = 20
)

// FileNames lists the configuration files Load looks for, in order.
var FileNames = []string{
	BaseName + ".json",
	BaseName + ".yaml",
	BaseName + ".yml",
	BaseName + ".toml",
}

// Config represents a pathway configuration file.
type Config struct {
	// BasePath is the application's mount prefix, e.g. "/app".
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty" toml:"basePath,omitempty" validate:"omitempty,startswith=/"`

	// Mode is the history backend: browser, hash or memory.
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty" validate:"omitempty,oneof=browser hash memory"`

	// Locale is a BCP 47 tag used as the first path segment.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty" toml:"locale,omitempty"`

	// PreRendered mounts the first route over server-rendered markup.
	PreRendered bool `json:"preRendered,omitempty" yaml:"preRendered,omitempty" toml:"preRendered,omitempty"`

	// RestoreScroll restores scroll positions on back and forward.
	RestoreScroll bool `json:"restoreScroll,omitempty" yaml:"restoreScroll,omitempty" toml:"restoreScroll,omitempty"`

	// DebugMode logs every navigation phase.
	DebugMode bool `json:"debugMode,omitempty" yaml:"debugMode,omitempty" toml:"debugMode,omitempty"`

	// HashFallback switches to hash mode when the History API is missing.
	HashFallback bool `json:"hashFallback,omitempty" yaml:"hashFallback,omitempty" toml:"hashFallback,omitempty"`

	// Concurrency is "last-write-wins" (default) or "supersede".
	Concurrency string `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty" validate:"omitempty,oneof=last-write-wins supersede"`

	// Routes in match priority order.
	Routes []RouteConfig `json:"routes,omitempty" yaml:"routes,omitempty" toml:"routes,omitempty" validate:"dive"`

	// Serve configures the pathway serve command.
	Serve ServeConfig `json:"serve,omitempty" yaml:"serve,omitempty" toml:"serve,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RouteConfig is one route table entry.
type RouteConfig struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Path      string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Component string `json:"component,omitempty" yaml:"component,omitempty" toml:"component,omitempty"`
}

// ServeConfig contains the remote window server settings.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" toml:"addr,omitempty" validate:"required"`

	// WSPath is the WebSocket endpoint for remote windows.
	WSPath string `json:"wsPath,omitempty" yaml:"wsPath,omitempty" toml:"wsPath,omitempty" validate:"required,startswith=/"`

	// MetricsPath is the Prometheus endpoint. "-" disables it.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty" toml:"metricsPath,omitempty" validate:"required"`

	// EventsPerSecond limits inbound events per connection.
	EventsPerSecond float64 `json:"eventsPerSecond,omitempty" yaml:"eventsPerSecond,omitempty" toml:"eventsPerSecond,omitempty" validate:"gte=0"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It uses the first of FileNames present in the directory.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("C121").
		WithDetail("No pathway.json, pathway.yaml or pathway.toml found in " + dir)
}

// LoadFile reads configuration from the specified file path. The format
// follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C121").WithDetail(path + " does not exist")
		}
		return nil, errors.New("C120").Wrap(err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes configuration data in the format named by ext (".json",
// ".yaml", ".yml" or ".toml") and applies defaults.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}

	var err error
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if err == io.EOF {
			err = nil
		}
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), cfg)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = errors.Newf(errors.CategoryConfig, "unknown key %q", undecoded[0].String())
			}
		}
	default:
		return nil, errors.New("C123").WithDetailf("extension %q", ext)
	}
	if err != nil {
		return nil, errors.New("C120").WithDetail(err.Error())
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Concurrency == "" {
		c.Concurrency = "last-write-wins"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.WSPath == "" {
		c.Serve.WSPath = DefaultWSPath
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}
	if c.Serve.EventsPerSecond == 0 {
		c.Serve.EventsPerSecond = DefaultEventsPerSecond
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("C121").
				WithDetail("No configuration found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
