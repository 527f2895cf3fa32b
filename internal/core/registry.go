package core

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/disttag/client"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org/"

// Endpoint is a resolved registry resource and the credentials to use
// with it.
type Endpoint struct {
	Registry string
	URL      string
	Auth     Auth
}

// Revision returns the endpoint for writing the document at revision rev.
func (e Endpoint) Revision(rev string) Endpoint {
	e.URL = e.URL + "/-rev/" + url.PathEscape(rev)
	return e
}

// Mapper resolves package names to registry endpoints. Scoped packages use
// their scope's registry when one is configured. Credentials are keyed by
// nerf dart ("//host/path/") and matched against the registry URL, walking
// up its path.
type Mapper struct {
	registry string
	scopes   map[string]string
	auth     map[string]Auth
}

// NewMapper validates the registry URLs and returns a Mapper. scopes maps
// "@scope" (or "scope") to a registry URL; auth maps nerf darts or full
// registry URLs to credentials.
func NewMapper(registry string, scopes map[string]string, auth map[string]Auth) (*Mapper, error) {
	if registry == "" {
		registry = DefaultRegistry
	}
	reg, err := client.NormalizeRegistry(registry)
	if err != nil {
		return nil, err
	}

	m := &Mapper{
		registry: reg,
		scopes:   make(map[string]string, len(scopes)),
		auth:     make(map[string]Auth, len(auth)),
	}
	for scope, u := range scopes {
		norm, err := client.NormalizeRegistry(u)
		if err != nil {
			return nil, fmt.Errorf("scope %s: %w", scope, err)
		}
		if !strings.HasPrefix(scope, "@") {
			scope = "@" + scope
		}
		m.scopes[scope] = norm
	}
	for key, a := range auth {
		if !strings.HasPrefix(key, "//") {
			key = client.NerfDart(key)
			if key == "" {
				return nil, fmt.Errorf("invalid auth key")
			}
		}
		if !strings.HasSuffix(key, "/") {
			key += "/"
		}
		m.auth[key] = a
	}
	return m, nil
}

// RegistryFor returns the registry base URL serving name.
func (m *Mapper) RegistryFor(name string) string {
	if reg, ok := m.scopes[Scope(name)]; ok {
		return reg
	}
	return m.registry
}

// Resolve returns the document endpoint for a package.
func (m *Mapper) Resolve(name string) (Endpoint, error) {
	if name == "" {
		return Endpoint{}, fmt.Errorf("resolving registry: empty package name")
	}
	reg := m.RegistryFor(name)
	return Endpoint{
		Registry: reg,
		URL:      client.JoinPath(reg, client.EscapeName(name)),
		Auth:     m.AuthFor(reg),
	}, nil
}

// AuthFor returns the credentials configured for registry, or anonymous
// access.
func (m *Mapper) AuthFor(registry string) Auth {
	key := client.NerfDart(registry)
	for key != "" {
		if a, ok := m.auth[key]; ok {
			return a
		}
		key = parentDart(key)
	}
	return Auth{}
}

// parentDart strips the last path segment: "//h/a/b/" -> "//h/a/".
// It returns "" once only the host is left.
func parentDart(key string) string {
	trimmed := strings.TrimSuffix(key, "/")
	i := strings.LastIndex(trimmed, "/")
	if i <= 1 {
		return ""
	}
	return trimmed[:i+1]
}
