// Package disttag manages npm dist-tags: named, mutable pointers from a
// label such as "latest" or "beta" to one published version of a package.
//
// Basic usage:
//
//	cfg, err := disttag.LoadConfig("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cmd, err := disttag.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Same grammar as the command line: add, del, ls and their aliases.
//	if err := cmd.Run(context.Background(), []string{"add", "my-pkg@1.2.0", "beta"}); err != nil {
//		log.Fatal(err)
//	}
//
// Every add and remove reads the current tags, changes them in memory, and
// writes the whole set back using the document revision read immediately
// before the write. Concurrent writers are not retried; the last write wins.
package disttag

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/git-pkgs/disttag/client"
	"github.com/git-pkgs/disttag/internal/config"
	"github.com/git-pkgs/disttag/internal/core"
	"github.com/git-pkgs/disttag/internal/npm"
)

// Usage is the command grammar.
const Usage = "dist-tag add <pkg>@<version> [<tag>]" +
	"\ndist-tag del <pkg> <tag>" +
	"\ndist-tag ls [<pkg>]"

// Re-export types from internal/core
type (
	// Tags maps dist-tag names to versions.
	Tags = core.Tags

	// Spec is a parsed package reference.
	Spec = core.Spec

	UsageError      = core.UsageError
	ValidationError = core.ValidationError
	NoTagsError     = core.NoTagsError
	NotATagError    = core.NotATagError
	RegistryError   = core.RegistryError
)

// Re-export errors
var (
	ErrNotFound     = core.ErrNotFound
	ErrInvalidWrite = core.ErrInvalidWrite
)

// Config holds registry, credential, and default-tag settings.
type Config = config.Config

// Credentials authenticate against one registry in Config.Auth.
type Credentials = config.Credentials

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a YAML config file and environment overrides. See
// config.Load for the lookup order.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// ParseSpec parses "name@version", "@scope/name@version", or an npm
// Package URL.
func ParseSpec(raw string) (Spec, error) {
	return core.ParseSpec(raw)
}

// TagStore reads and writes the dist-tags of a package.
type TagStore interface {
	FetchTags(ctx context.Context, name string) (Tags, error)
	PutTags(ctx context.Context, name string, tags Tags) ([]byte, error)
}

// Command implements the add, remove, and list operations.
type Command struct {
	Store TagStore

	// DefaultTag is used by Add when no tag is given.
	DefaultTag string

	// Dir is searched for package.json when List gets no package.
	Dir string

	Out io.Writer
	Log logrus.FieldLogger
}

// Option configures a Command built by New.
type Option func(*Command)

// WithOutput sets where status lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Command) {
		c.Out = w
	}
}

// WithLogger sets the logger. Defaults to cfg.Logger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Command) {
		c.Log = l
	}
}

// New builds a Command talking to the registries described by cfg.
func New(cfg *Config, opts ...Option) (*Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Command{
		DefaultTag: cfg.Tag,
		Dir:        cfg.Dir,
		Out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Log == nil {
		c.Log = cfg.Logger()
	}

	mapper, err := newMapper(cfg)
	if err != nil {
		return nil, err
	}
	httpClient := core.NewClient(
		core.WithTimeout(cfg.Timeout),
		core.WithMaxRetries(cfg.Retries),
		core.WithUserAgent(cfg.UserAgent),
	)
	c.Store = npm.New(mapper, httpClient, npm.WithLogger(c.Log))
	return c, nil
}

// newMapper converts cfg into a Mapper. cfg.Token applies to the default
// registry unless cfg.Auth has an entry under the same nerf dart.
func newMapper(cfg *Config) (*core.Mapper, error) {
	auth := make(map[string]core.Auth, len(cfg.Auth)+1)
	if cfg.Token != "" {
		auth[client.NerfDart(cfg.Registry)] = core.Auth{Token: cfg.Token}
	}
	for key, cred := range cfg.Auth {
		if dart := client.NerfDart(key); !strings.HasPrefix(key, "//") && dart != "" {
			key = dart
		}
		auth[key] = core.Auth{
			Token:    cred.Token,
			Username: cred.Username,
			Password: cred.Password,
		}
	}
	return core.NewMapper(cfg.Registry, cfg.Scopes, auth)
}

// Run dispatches args[0] to a handler:
//
//	add, a                   Add(args[1], args[2])
//	del, d, rm, r, remove    Remove(args[2], args[1])
//	ls, l, sl, list          List(args[1])
//
// Missing arguments are passed as empty strings.
func (c *Command) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: "Usage: " + Usage}
	}

	rest := args[1:]
	switch args[0] {
	case "add", "a":
		return c.Add(ctx, arg(rest, 0), arg(rest, 1))
	case "del", "d", "rm", "r", "remove":
		return c.Remove(ctx, arg(rest, 1), arg(rest, 0))
	case "ls", "l", "sl", "list":
		_, err := c.List(ctx, arg(rest, 0))
		return err
	default:
		return &UsageError{Usage: "Usage: " + Usage}
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (c *Command) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

func (c *Command) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
