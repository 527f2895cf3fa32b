// Package config loads dist-tag settings from a YAML file, the
// environment, and command-line overrides into one explicit Config.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	ConfigEnvVar   = "DIST_TAG_CONFIG"
	RegistryEnvVar = "NPM_CONFIG_REGISTRY"
	TagEnvVar      = "NPM_CONFIG_TAG"
	TokenEnvVar    = "NPM_TOKEN"

	ConfigFilename  = ".disttag.yaml"
	DefaultRegistry = "https://registry.npmjs.org/"
	DefaultTag      = "latest"
)

// Credentials authenticate against one registry. Token wins over
// username and password.
type Credentials struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config represents the config file format and the resolved settings.
//
//	registry: https://registry.npmjs.org/
//	tag: latest
//	scopes:
//	  "@corp": https://npm.corp.example/
//	auth:
//	  "//npm.corp.example/":
//	    token: abc123
type Config struct {
	Registry  string                 `yaml:"registry"`
	Tag       string                 `yaml:"tag"`
	Token     string                 `yaml:"token"` // for Registry
	Scopes    map[string]string      `yaml:"scopes"`
	Auth      map[string]Credentials `yaml:"auth"`
	UserAgent string                 `yaml:"user-agent"`
	Timeout   time.Duration          `yaml:"timeout"`
	Retries   int                    `yaml:"retries"`
	LogLevel  string                 `yaml:"loglevel"`

	// Dir is where a package.json is looked up when no package is named.
	Dir string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Registry:  DefaultRegistry,
		Tag:       DefaultTag,
		UserAgent: "disttag",
		Timeout:   30 * time.Second,
		Retries:   2,
		LogLevel:  "warn",
		Dir:       ".",
	}
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path falls back to $DIST_TAG_CONFIG and
// then ~/.disttag.yaml; only a path the user chose has to exist.
func Load(path string) (*Config, error) {
	userSpecified := path != ""
	if !userSpecified {
		if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
			path = envPath
			userSpecified = true
		}
	}
	if !userSpecified {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ConfigFilename)
		}
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(os.ExpandEnv(path))
		if err != nil && (!errors.Is(err, os.ErrNotExist) || userSpecified) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(RegistryEnvVar); v != "" {
		c.Registry = v
	}
	if v := os.Getenv(TagEnvVar); v != "" {
		c.Tag = v
	}
	if v := os.Getenv(TokenEnvVar); v != "" {
		c.Token = v
	}
}

// Validate checks the settings that every command depends on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Registry)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("registry must be an absolute http(s) URL, got %q", c.Registry)
	}
	if strings.TrimSpace(c.Tag) == "" {
		return errors.New("tag must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("loglevel: %w", err)
	}
	return nil
}

// Logger returns a logrus logger writing to stderr at the configured level.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}
